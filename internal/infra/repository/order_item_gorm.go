package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error) {
	if err := r.db.WithContext(ctx).Omit("Product").Create(&item).Error; err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}
