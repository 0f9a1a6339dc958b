package repository

import (
	"context"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
)

type AdminRepository interface {
	// 見つからなければErrNotFound
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
	// emailが同じならパスワードを上書き
	Upsert(ctx context.Context, admin model.Admin) (model.Admin, error)
}
