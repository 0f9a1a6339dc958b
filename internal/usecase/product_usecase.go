package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"
	"github.com/MahyaarMaleki/storetrack/internal/validator"

	"github.com/sirupsen/logrus"
)

type ProductUsecase struct {
	products repo.ProductRepository
	tx       repo.TransactionManager
	cache    ProductCache
}

// DI
// cacheがnilならキャッシュなし
func NewProductUsecase(products repo.ProductRepository, tx repo.TransactionManager, cache ProductCache) *ProductUsecase {
	if cache == nil {
		cache = nopCache{}
	}
	return &ProductUsecase{products: products, tx: tx, cache: cache}
}

type CreateProductInput struct {
	Name     string         `json:"name" validate:"notblank,max=255"`
	Supply   *int64         `json:"supply" validate:"required,gte=0,lte=1000000000"`
	Price    *int64         `json:"price" validate:"required,gte=0,lte=1000000000"`
	Category model.Category `json:"category" validate:"product_category"`
}

// 一覧の絞り込み（すべてAND）
type ProductListInput struct {
	Name           string          `json:"name"`
	Category       *model.Category `json:"category" validate:"omitnil,product_category"`
	MinPrice       *int64          `json:"minPrice" validate:"omitnil,gte=0"`
	MaxPrice       *int64          `json:"maxPrice" validate:"omitnil,gte=0"`
	IncludeDeleted bool            `json:"includeDeleted"`
}

// nilの項目は変更しない
type UpdateProductInput struct {
	Name     *string         `json:"name" validate:"omitnil,notblank,max=255"`
	Supply   *int64          `json:"supply" validate:"omitnil,gte=0,lte=1000000000"`
	Price    *int64          `json:"price" validate:"omitnil,gte=0,lte=1000000000"`
	Category *model.Category `json:"category" validate:"omitnil,product_category"`
}

func (in UpdateProductInput) empty() bool {
	return in.Name == nil && in.Supply == nil && in.Price == nil && in.Category == nil
}

// 商品を作成し、在庫があれば入荷履歴も同じトランザクションで残す
func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if err := validator.Struct(in); err != nil {
		return model.Product{}, validationFailed(err)
	}

	p := model.Product{
		Name:     strings.TrimSpace(in.Name),
		Supply:   *in.Supply,
		Price:    *in.Price,
		Category: in.Category,
	}

	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Products().Create(ctx, p)
		if err != nil {
			return NewInternalError(err)
		}

		//在庫0なら履歴は作らない（数量は正の数だけ）
		if c.Supply > 0 {
			if err := r.Histories().Create(ctx, model.ProductHistory{
				ProductID: c.ID,
				Type:      model.HistoryTypeArrival,
				Quantity:  c.Supply,
			}); err != nil {
				return NewInternalError(err)
			}
		}

		created = c
		return nil
	})
	if err != nil {
		return model.Product{}, toHTTPError(err)
	}
	return created, nil
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ProductListInput) ([]model.Product, error) {
	var details []string
	if err := validator.Struct(in); err != nil {
		details = validator.Messages(err)
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		details = append(details, "minPrice must not be greater than maxPrice")
	}
	if len(details) > 0 {
		return nil, NewValidationError("invalid filter", details...)
	}

	items, err := u.products.List(ctx, repo.ProductListQuery{
		Name:           strings.TrimSpace(in.Name),
		Category:       in.Category,
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		IncludeDeleted: in.IncludeDeleted,
	})
	if err != nil {
		return nil, NewInternalError(err)
	}
	return items, nil
}

// 論理削除済みは404
func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if p, ok, err := u.cache.Get(ctx, productID); err != nil {
		logrus.WithContext(ctx).WithError(err).WithField("product_id", productID).Warn("product cache get failed")
	} else if ok {
		return p, nil
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewInternalError(err)
	}

	if err := u.cache.Set(ctx, p); err != nil {
		logrus.WithContext(ctx).WithError(err).WithField("product_id", productID).Warn("product cache set failed")
	}
	return p, nil
}

// 部分更新。在庫が変わったら差分を履歴に残す。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	if in.empty() {
		return model.Product{}, NewValidationError("request body cannot be empty")
	}
	if err := validator.Struct(in); err != nil {
		return model.Product{}, validationFailed(err)
	}

	patch := repo.ProductPatch{
		Supply:   in.Supply,
		Price:    in.Price,
		Category: in.Category,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}

	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		current, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found or already deleted")
		}
		if err != nil {
			return NewInternalError(err)
		}

		if err := r.Products().Update(ctx, productID, patch); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("product not found or already deleted")
			}
			return NewInternalError(err)
		}

		if patch.Supply != nil && *patch.Supply != current.Supply {
			if err := r.Histories().Create(ctx, supplyChange(productID, current.Supply, *patch.Supply)); err != nil {
				return NewInternalError(err)
			}
		}

		updated, err = r.Products().FindByID(ctx, productID)
		if err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return model.Product{}, toHTTPError(err)
	}

	u.invalidate(ctx, productID)
	return updated, nil
}

// 論理削除。削除済みなら404。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	err := u.products.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewInternalError(err)
	}

	u.invalidate(ctx, productID)
	return nil
}

func (u *ProductUsecase) invalidate(ctx context.Context, productIDs ...int64) {
	invalidateProducts(ctx, u.cache, productIDs...)
}

// 在庫の差分を履歴にする（増えたら入荷、減ったら出荷）
func supplyChange(productID, before, after int64) model.ProductHistory {
	h := model.ProductHistory{ProductID: productID, Type: model.HistoryTypeArrival, Quantity: after - before}
	if after < before {
		h.Type = model.HistoryTypeDeparture
		h.Quantity = before - after
	}
	return h
}

func invalidateProducts(ctx context.Context, cache ProductCache, productIDs ...int64) {
	if len(productIDs) == 0 {
		return
	}
	if err := cache.Invalidate(ctx, productIDs...); err != nil {
		logrus.WithContext(ctx).WithError(err).WithField("product_ids", fmt.Sprint(productIDs)).Warn("product cache invalidate failed")
	}
}
