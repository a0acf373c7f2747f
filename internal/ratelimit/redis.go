package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:" // ratelimit:{client_key}:{window_start_unix}

// RedisLimiter counts requests per fixed window in Redis so that every API
// instance sharing the Redis server enforces one quota per client.
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (r *RedisLimiter) WithClock(now func() time.Time) *RedisLimiter {
	r.now = now
	return r
}

func (r *RedisLimiter) Backend() string { return "redis" }

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	windowStart := now.Truncate(r.cfg.Window)
	windowEnd := windowStart.Add(r.cfg.Window)

	// Use pipeline so the counter and its expiry are set together
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, r.windowKey(key, windowStart))
	pipe.Expire(ctx, r.windowKey(key, windowStart), windowEnd.Sub(now)+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	dec := Decision{Limit: r.cfg.Requests}
	if count > r.cfg.Requests {
		dec.RetryAfter = windowEnd.Sub(now)
		return dec, nil
	}

	dec.Allowed = true
	dec.Remaining = r.cfg.Requests - count
	return dec, nil
}

func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisLimiter) windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, windowStart.Unix())
}
