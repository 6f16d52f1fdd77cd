package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper suppresses duplicate processing of redelivered MQ events.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a handler + user pair.
// It returns true the first time and false on a duplicate. When redis is
// unavailable the event is processed anyway; a duplicate email beats a
// dropped one.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, userID int) bool {
	key := fmt.Sprintf("dedup:%s:%d", handler, userID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
