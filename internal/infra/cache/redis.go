package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storetrack:product:"

// NewRedisClient はREDIS_*の設定で接続し、疎通を確認する
func NewRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// ProductCache は商品1件をJSONで持つ読み取りキャッシュ
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(productID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, productID)
}

// 無ければ (zero, false, nil)
func (c *ProductCache) Get(ctx context.Context, productID int64) (model.Product, bool, error) {
	data, err := c.client.Get(ctx, productKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Product{}, false, nil
	}
	if err != nil {
		return model.Product{}, false, err
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		//壊れたエントリは消してミス扱い
		_ = c.client.Del(ctx, productKey(productID)).Err()
		return model.Product{}, false, nil
	}
	return p, true, nil
}

func (c *ProductCache) Set(ctx context.Context, p model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, productIDs ...int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}
