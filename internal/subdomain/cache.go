package subdomain

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var ErrMiss = errors.New("cache miss")

type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

const takenValue = "taken"

// CachedLookup remembers names the next lookup reported as taken. Names are
// never released, so a taken entry never expires; "available" is never cached.
type CachedLookup struct {
	kv     KV
	next   Lookup
	logger *zap.Logger
}

func NewCachedLookup(kv KV, next Lookup, logger *zap.Logger) *CachedLookup {
	return &CachedLookup{kv: kv, next: next, logger: logger}
}

func cacheKey(name string) string {
	return "subdomain:taken:" + name
}

func (c *CachedLookup) IsTaken(ctx context.Context, name string) (bool, error) {
	val, err := c.kv.Get(ctx, cacheKey(name))
	switch {
	case err == nil && val == takenValue:
		return true, nil
	case err != nil && !errors.Is(err, ErrMiss):
		c.logger.Warn("subdomain cache read failed", zap.String("subdomain", name), zap.Error(err))
	}

	taken, err := c.next.IsTaken(ctx, name)
	if err != nil || !taken {
		return taken, err
	}

	if err := c.kv.Set(ctx, cacheKey(name), takenValue, 0); err != nil {
		c.logger.Warn("subdomain cache write failed", zap.String("subdomain", name), zap.Error(err))
	}
	return true, nil
}
