package repository

import (
	"context"
	"errors"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	repo "github.com/MahyaarMaleki/storetrack/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type adminGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewAdminGormRepository(db *gorm.DB) repo.AdminRepository {
	return &adminGormRepository{db: db}
}

// emailで管理者を1件取得
func (r *adminGormRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

// seedから使う。同じemailならパスワードだけ更新
func (r *adminGormRepository) Upsert(ctx context.Context, admin model.Admin) (model.Admin, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"hashed_password", "updated_at"}),
	}).Create(&admin).Error
	if err != nil {
		return model.Admin{}, err
	}
	return r.FindByEmail(ctx, admin.Email)
}
