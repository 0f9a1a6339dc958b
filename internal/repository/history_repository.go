package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

// 在庫履歴（追記のみ）
type HistoryRepository interface {
	Create(ctx context.Context, h model.ProductHistory) error

	// 商品（削除済み含む）をつけて返す。新しい順。
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductHistory, error)
	ListAll(ctx context.Context) ([]model.ProductHistory, error)
}
