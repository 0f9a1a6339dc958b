package usecase

import (
	"context"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

// 商品の読み取りキャッシュ（redisなど）
type ProductCache interface {
	Get(ctx context.Context, productID int64) (model.Product, bool, error)
	Set(ctx context.Context, p model.Product) error
	Invalidate(ctx context.Context, productIDs ...int64) error
}

// 注文イベントの送信先（RabbitMQなど）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// 送信するイベントの中身
type OrderEvent struct {
	OrderID    int64             `json:"orderId"`
	Status     model.OrderStatus `json:"status,omitempty"`
	PrevStatus model.OrderStatus `json:"prevStatus,omitempty"`
	TotalPrice int64             `json:"totalPrice"`
	ProductIDs []int64           `json:"productIds,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type nopCache struct{}

func (nopCache) Get(context.Context, int64) (model.Product, bool, error) {
	return model.Product{}, false, nil
}
func (nopCache) Set(context.Context, model.Product) error   { return nil }
func (nopCache) Invalidate(context.Context, ...int64) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
