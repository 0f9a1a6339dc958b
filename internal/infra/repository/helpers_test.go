package repository_test

import (
	"context"
	"testing"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	"github.com/MahyaarMaleki/storetrack/internal/infra/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テストごとに別のin-memory sqliteを作る
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Connect(config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

func seedProduct(t *testing.T, gormDB *gorm.DB, name string, category model.Category, price int64, supply int64) model.Product {
	t.Helper()

	p := model.Product{Name: name, Category: category, Price: price, Supply: supply}
	require.NoError(t, gormDB.WithContext(context.Background()).Create(&p).Error)
	return p
}
