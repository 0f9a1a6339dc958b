package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	"gorm.io/gorm"
)

type HistoryGormRepository struct {
	db *gorm.DB
}

func NewHistoryGormRepository(db *gorm.DB) *HistoryGormRepository {
	return &HistoryGormRepository{db: db}
}

// 履歴を1件追記
func (r *HistoryGormRepository) Create(ctx context.Context, h model.ProductHistory) error {
	return r.db.WithContext(ctx).Omit("Product").Create(&h).Error
}

func (r *HistoryGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductHistory, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("product_id = ?", productID))
}

func (r *HistoryGormRepository) ListAll(ctx context.Context) ([]model.ProductHistory, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *HistoryGormRepository) list(ctx context.Context, q *gorm.DB) ([]model.ProductHistory, error) {
	rows := []model.ProductHistory{}
	err := q.
		Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Order("id desc").
		Find(&rows).Error
	if err != nil {
		return []model.ProductHistory{}, err
	}
	return rows, nil
}
