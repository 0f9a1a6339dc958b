package repository

import (
	"context"
	"errors"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索（すべてAND）
type ProductListQuery struct {
	Name           string
	Category       *model.Category
	MinPrice       *int64
	MaxPrice       *int64
	IncludeDeleted bool
}

// 部分更新。nilの項目は変更しない。
type ProductPatch struct {
	Name     *string
	Supply   *int64
	Price    *int64
	Category *model.Category
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Supply == nil && p.Price == nil && p.Category == nil
}

// 商品の永続化（保存・取得）だけを約束。
// 論理削除済みの商品はFindByID/Listでは見えない。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) error
	SoftDelete(ctx context.Context, id int64) error
}
