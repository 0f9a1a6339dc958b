package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"
	"github.com/MahyaarMaleki/storetrack/internal/validator"

	"github.com/sirupsen/logrus"
)

type OrderUsecase struct {
	orders repo.OrderRepository
	tx     repo.TransactionManager
	cache  ProductCache
	events EventPublisher
	now    func() time.Time
}

// DI
// cache/eventsがnilなら何もしない実装を使う
func NewOrderUsecase(orders repo.OrderRepository, tx repo.TransactionManager, cache ProductCache, events EventPublisher) *OrderUsecase {
	if cache == nil {
		cache = nopCache{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &OrderUsecase{orders: orders, tx: tx, cache: cache, events: events, now: time.Now}
}

type OrderItemInput struct {
	ProductID int64 `json:"productId" validate:"gte=1"`
	Quantity  int64 `json:"quantity" validate:"gte=1,lte=1000000000"`
}

type PlaceOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusInput struct {
	Status model.OrderStatus `json:"status" validate:"required,order_status"`
}

// 注文確定。
// 注文作成・在庫減算・明細・出荷履歴・合計更新を1トランザクションで行い、どれか失敗したら全部戻す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	if len(in.Items) == 0 {
		return model.Order{}, NewValidationError("an order must contain at least one item")
	}
	if err := validator.Struct(in); err != nil {
		return model.Order{}, validationFailed(err)
	}

	var placed model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderID, err := r.Orders().Create(ctx, model.Order{Status: model.OrderStatusPending})
		if err != nil {
			return NewInternalError(err)
		}

		var total int64
		for i, it := range in.Items {
			//論理削除済みは存在しない扱い
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError(fmt.Sprintf("product with id %d not found", it.ProductID))
			}
			if err != nil {
				return NewInternalError(err)
			}

			//価格はこの時点のスナップショット
			item := model.OrderItem{
				OrderID:         orderID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: p.Price,
			}
			line, ok := item.LineTotal()
			if ok {
				total, ok = model.AddAmount(total, line)
			}
			if !ok {
				return NewValidationError("order total is too large",
					fmt.Sprintf("items[%d].quantity makes the order total exceed the maximum amount", i))
			}

			ok, err = r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewInternalError(err)
			}
			if !ok {
				return NewValidationError("insufficient stock",
					fmt.Sprintf("items[%d].quantity exceeds available supply (%d) of product %d", i, p.Supply, p.ID))
			}

			if _, err := r.OrderItems().Create(ctx, item); err != nil {
				return NewInternalError(err)
			}

			if err := r.Histories().Create(ctx, model.ProductHistory{
				ProductID: it.ProductID,
				Type:      model.HistoryTypeDeparture,
				Quantity:  it.Quantity,
			}); err != nil {
				return NewInternalError(err)
			}
		}

		if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
			return NewInternalError(err)
		}

		placed, err = r.Orders().FindByID(ctx, orderID, false)
		if err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return model.Order{}, toHTTPError(err)
	}

	productIDs := itemProductIDs(placed.Items)
	invalidateProducts(ctx, u.cache, productIDs...)
	u.publish(ctx, EventOrderPlaced, OrderEvent{
		OrderID:    placed.ID,
		Status:     placed.Status,
		TotalPrice: placed.TotalPrice,
		ProductIDs: productIDs,
	})
	return placed, nil
}

// ステータス変更。
// pending→shipped / pending→cancelled のみ。shipped・cancelledは終端。
// キャンセル時は在庫を戻して入荷履歴を残す。
func (u *OrderUsecase) UpdateOrderStatus(ctx context.Context, orderID int64, in UpdateOrderStatusInput) (model.Order, error) {
	if err := validator.Struct(in); err != nil {
		return model.Order{}, NewValidationError("invalid status", validator.Messages(err)...)
	}
	to := in.Status

	var (
		updated  model.Order
		from     model.OrderStatus
		restored []int64
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID, false)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewInternalError(err)
		}
		from = o.Status

		switch to {
		case model.OrderStatusPending:
			//戻せない。pendingのままなら何もしない
			if from != model.OrderStatusPending {
				return transitionError(from, to)
			}

		case model.OrderStatusShipped:
			switch from {
			case model.OrderStatusShipped:
				//同じ状態への更新は成功扱い
			case model.OrderStatusCancelled:
				return NewInvalidTransitionError("cannot ship a cancelled order")
			default:
				if err := compareAndSet(ctx, r, orderID, from, to); err != nil {
					return err
				}
			}

		case model.OrderStatusCancelled:
			if from != model.OrderStatusPending {
				return NewInvalidTransitionError("only pending orders can be cancelled")
			}
			if err := compareAndSet(ctx, r, orderID, from, to); err != nil {
				return err
			}

			for i, it := range o.Items {
				//削除済みの商品にも戻す。行そのものが無いときだけ飛ばす
				err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity)
				if errors.Is(err, repo.ErrStockOverflow) {
					return NewValidationError("stock overflow",
						fmt.Sprintf("items[%d].quantity would overflow the supply of product %d", i, it.ProductID))
				}
				if errors.Is(err, repo.ErrNotFound) {
					logrus.WithContext(ctx).WithFields(logrus.Fields{
						"order_id":   orderID,
						"product_id": it.ProductID,
						"quantity":   it.Quantity,
					}).Warn("product row is gone, stock not restored")
					continue
				}
				if err != nil {
					return NewInternalError(err)
				}

				if err := r.Histories().Create(ctx, model.ProductHistory{
					ProductID: it.ProductID,
					Type:      model.HistoryTypeArrival,
					Quantity:  it.Quantity,
				}); err != nil {
					return NewInternalError(err)
				}
				restored = append(restored, it.ProductID)
			}
		}

		updated, err = r.Orders().FindByID(ctx, orderID, false)
		if err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return model.Order{}, toHTTPError(err)
	}

	invalidateProducts(ctx, u.cache, restored...)
	if from != to {
		u.publish(ctx, EventOrderStatusChanged, OrderEvent{
			OrderID:    updated.ID,
			Status:     updated.Status,
			PrevStatus: from,
			TotalPrice: updated.TotalPrice,
			ProductIDs: restored,
		})
	}
	return updated, nil
}

// 明細つき。新しい順。
func (u *OrderUsecase) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return orders, nil
}

// 明細と商品（削除済み含む）つき
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID, true)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return model.Order{}, NewInternalError(err)
	}
	return o, nil
}

// 物理削除。在庫は戻さない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	var deleted model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID, false)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found or already deleted")
		}
		if err != nil {
			return NewInternalError(err)
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("order not found or already deleted")
			}
			return NewInternalError(err)
		}
		deleted = o
		return nil
	})
	if err != nil {
		return toHTTPError(err)
	}

	u.publish(ctx, EventOrderDeleted, OrderEvent{
		OrderID:    deleted.ID,
		Status:     deleted.Status,
		TotalPrice: deleted.TotalPrice,
		ProductIDs: itemProductIDs(deleted.Items),
	})
	return nil
}

// コミット後に送る。失敗しても注文は成功のまま。
func (u *OrderUsecase) publish(ctx context.Context, key string, ev OrderEvent) {
	ev.OccurredAt = u.now().UTC()
	if err := u.events.Publish(ctx, key, ev); err != nil {
		logrus.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
			"event":    key,
			"order_id": ev.OrderID,
		}).Error("publish order event failed")
	}
}

// 他のリクエストが先に変えていたら遷移エラー
func compareAndSet(ctx context.Context, r repo.TxRepos, orderID int64, from, to model.OrderStatus) error {
	ok, err := r.Orders().UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return NewInternalError(err)
	}
	if !ok {
		return NewInvalidTransitionError("order status was changed concurrently")
	}
	return nil
}

func transitionError(from, to model.OrderStatus) error {
	return NewInvalidTransitionError(fmt.Sprintf("cannot change order status from %s to %s", from, to))
}

func itemProductIDs(items []model.OrderItem) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}
	return ids
}
