package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error)
}
