package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"habittrack/internal/config"
)

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Cache is the small read-through surface the services use. Misses and redis
// outages both surface as empty values; callers always fall back to the
// database.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, val string, ttl time.Duration) {
	c.rdb.Set(ctx, key, val, ttl)
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	c.rdb.Del(ctx, keys...)
}
