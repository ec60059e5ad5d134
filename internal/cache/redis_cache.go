package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"frenz/gateway/internal/domain"
)

type RedisSupplierCache struct {
	client *redis.Client
}

func NewRedisSupplierCache(addr string, password string, db int) *RedisSupplierCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSupplierCache{client: client}
}

func (c *RedisSupplierCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSupplierCache) Close() error {
	return c.client.Close()
}

func (c *RedisSupplierCache) Get(ctx context.Context, key string) ([]domain.Supplier, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var suppliers []domain.Supplier
	if err := json.Unmarshal([]byte(val), &suppliers); err != nil {
		return nil, false, err
	}
	return suppliers, true, nil
}

func (c *RedisSupplierCache) Set(ctx context.Context, key string, suppliers []domain.Supplier, ttl time.Duration) error {
	if len(suppliers) == 0 {
		return nil
	}
	payload, err := json.Marshal(suppliers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
