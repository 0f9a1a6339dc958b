package repository

import (
	"context"
	"errors"
)

// 在庫を戻すとint64を超える
var ErrStockOverflow = errors.New("stock overflow")

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（論理削除済みは対象外）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）。論理削除済みの商品にも戻す。
	// 行が無ければErrNotFound、あふれるならErrStockOverflow
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
