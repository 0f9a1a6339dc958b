package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // logrusのレベル

	DBDriver         string // postgres / mysql / sqlite
	DatabaseURL      string // DSN（あれば最優先）
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string
	TxIsolation      string // serializable / repeatable_read / read_committed / default

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	FEURL string // フロントURL（CORS）

	RedisAddr       string // 空なら商品キャッシュなし
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	RabbitMQURL      string // 空ならイベント送信なし
	RabbitMQExchange string

	LoginRatePerMinute int
	LoginRateBurst     int
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	var err error
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:         strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storetrack"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		TxIsolation:      strings.ToLower(getenv("DB_TX_ISOLATION", "serializable")),

		JWTSecret: os.Getenv("JWT_SECRET"),

		FEURL: os.Getenv("FE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getenv("RABBITMQ_EXCHANGE", "storetrack.orders"),
	}

	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = atoiDefault("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.LoginRatePerMinute, err = atoiDefault("LOGIN_RATE_PER_MINUTE", 5); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateBurst, err = atoiDefault("LOGIN_RATE_BURST", 5); err != nil {
		return Config{}, err
	}
	if cfg.JWTTTL, err = durationDefault("JWT_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ProductCacheTTL, err = durationDefault("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be one of postgres, mysql, sqlite: got %q", cfg.DBDriver)
	}
	if cfg.DBDriver != "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", cfg.DBDriver)
	}
	switch cfg.TxIsolation {
	case "serializable", "repeatable_read", "read_committed", "default":
	default:
		return Config{}, fmt.Errorf("DB_TX_ISOLATION is invalid: %q", cfg.TxIsolation)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive")
	}
	if cfg.LoginRatePerMinute <= 0 || cfg.LoginRateBurst <= 0 {
		return Config{}, fmt.Errorf("LOGIN_RATE_PER_MINUTE and LOGIN_RATE_BURST must be positive")
	}

	return cfg, nil
}

// 本番かどうか
func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
