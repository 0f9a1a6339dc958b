package usecase

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"
)

// 在庫履歴の参照だけ
type HistoryUsecase struct {
	histories repo.HistoryRepository
}

func NewHistoryUsecase(histories repo.HistoryRepository) *HistoryUsecase {
	return &HistoryUsecase{histories: histories}
}

// 1件もなければ404
func (u *HistoryUsecase) ListHistoryForProduct(ctx context.Context, productID int64) ([]model.ProductHistory, error) {
	rows, err := u.histories.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, NewNotFoundError("no history found for this product")
	}
	return rows, nil
}

func (u *HistoryUsecase) ListAllHistory(ctx context.Context) ([]model.ProductHistory, error) {
	rows, err := u.histories.ListAll(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return rows, nil
}
