package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateTotal(ctx context.Context, orderID int64, total int64) error

	// fromのときだけtoに変える（他で先に変わっていたらfalse）
	UpdateStatus(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error)

	// 明細つきで取得。withProductsなら明細の商品（削除済み含む）も付ける
	FindByID(ctx context.Context, orderID int64, withProducts bool) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)

	// 明細ごと物理削除
	Delete(ctx context.Context, orderID int64) error
}
