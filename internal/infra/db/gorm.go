package db

import (
	"database/sql"
	"fmt"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if cfg.LogLevel == "debug" {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dsn, err := mysqlDSN(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		// DATABASE_URL があれば最優先で使う
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
			)
		}
		dialector = postgres.Open(dsn)
	}

	gormDB, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	//sqliteは書き込みが1本なので接続も1本にする
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return gormDB, nil
}

// MySQLは変更した行数しか返さないので、一致した行数を返すようにする。
// RowsAffectedで存在チェックしている更新がそのまま使える
func mysqlDSN(raw string) (string, error) {
	dsnCfg, err := gomysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DATABASE_URL: %w", err)
	}
	dsnCfg.ClientFoundRows = true
	dsnCfg.ParseTime = true
	return dsnCfg.FormatDSN(), nil
}

// Migrate はテーブルを作る（外部キーも含む）
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Admin{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.ProductHistory{},
	)
}

// Close は接続を閉じる
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TxOptions はDB_TX_ISOLATIONからトランザクションの分離レベルを決める。
// sqliteは分離レベルを指定できないのでnil。
func TxOptions(cfg config.Config) *sql.TxOptions {
	if cfg.DBDriver == "sqlite" {
		return nil
	}
	switch cfg.TxIsolation {
	case "serializable":
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	case "repeatable_read":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	case "read_committed":
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	default:
		return nil
	}
}
