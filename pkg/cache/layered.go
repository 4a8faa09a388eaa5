package cache

import (
	"context"
	"time"
)

// LayeredCache reads through an in-process L1 in front of Redis. Writes go
// to Redis first so other replicas never see a value Redis lost.
type LayeredCache struct {
	mem *MemoryCache
	rds *RedisCache
}

// NewLayeredCache creates a layered cache over the given Redis cache.
func NewLayeredCache(rds *RedisCache, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		mem: NewMemoryCache(opts...),
		rds: rds,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.rds.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw []byte
	if err := lc.rds.Get(ctx, key, &raw); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, raw, 0)
	return unmarshalValue(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.rds.Delete(ctx, keys...)
}

// Exists consults Redis only: L1 content is a subset of L2.
func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.rds.Exists(ctx, keys...)
}

func (lc *LayeredCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	_ = lc.mem.Delete(ctx, key)
	return lc.rds.Expire(ctx, key, expiration)
}

// TryLock and Unlock go straight to Redis: locks must be visible across
// replicas.
func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return lc.rds.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	return lc.rds.Unlock(ctx, key)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.mem.Close()
	return lc.rds.Close()
}
