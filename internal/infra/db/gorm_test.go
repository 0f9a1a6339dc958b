package db

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigrate(t *testing.T) {
	cfg := config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	}

	gormDB, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gormDB) })

	require.NoError(t, Migrate(gormDB))

	for _, m := range []interface{}{&model.Admin{}, &model.Product{}, &model.Order{}, &model.OrderItem{}, &model.ProductHistory{}} {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}
	assert.True(t, gormDB.Migrator().HasTable("product_history"))
}

func TestTxOptions(t *testing.T) {
	assert.Nil(t, TxOptions(config.Config{DBDriver: "sqlite", TxIsolation: "serializable"}))
	assert.Nil(t, TxOptions(config.Config{DBDriver: "postgres", TxIsolation: "default"}))

	opts := TxOptions(config.Config{DBDriver: "postgres", TxIsolation: "serializable"})
	require.NotNil(t, opts)
	assert.Equal(t, sql.LevelSerializable, opts.Isolation)

	opts = TxOptions(config.Config{DBDriver: "mysql", TxIsolation: "read_committed"})
	require.NotNil(t, opts)
	assert.Equal(t, sql.LevelReadCommitted, opts.Isolation)
}

func TestMySQLDSN_CountsMatchedRows(t *testing.T) {
	dsn, err := mysqlDSN("storetrack:secret@tcp(localhost:3306)/storetrack?charset=utf8mb4")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dsn, "storetrack:secret@tcp(localhost:3306)/storetrack?"))
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
