package cache

import (
	"context"
	"encoding/json"
	"time"

	"hemicycle/internal/logger"
)

// Store is a byte-oriented TTL cache. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Cache is a look-aside JSON cache over a Store. Cache errors never fail a
// request: they are logged and the value is recomputed.
type Cache struct {
	store Store
	log   *logger.Logger
}

func New(store Store, log *logger.Logger) *Cache {
	return &Cache{store: store, log: log.With("component", "Cache")}
}

// Remember returns the cached value for key, or computes, stores and returns it.
// Concurrent misses may both compute; the last write wins.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if c != nil {
		if raw, ok, err := c.store.Get(ctx, key); err != nil {
			c.log.Warn("cache get failed", "key", key, "error", err)
		} else if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			c.log.Warn("dropping undecodable cache entry", "key", key)
		}
	}

	v, err := compute(ctx)
	if err != nil || c == nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
	return v, nil
}

// Invalidate deletes keys, logging failures.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.Warn("cache delete failed", "keys", keys, "error", err)
	}
}
