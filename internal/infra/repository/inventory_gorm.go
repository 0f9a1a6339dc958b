package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND supply >= ?", productID, qty).
		Update("supply", gorm.Expr("supply - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）。削除済みの行にも戻す
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Product{}).
		Where("id = ? AND supply <= ?", productID, math.MaxInt64-qty).
		Update("supply", gorm.Expr("supply + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	//行が無いのか、あふれるのか
	var n int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&model.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrStockOverflow
}
