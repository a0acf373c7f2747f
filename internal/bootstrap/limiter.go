package bootstrap

import (
	"context"
	"log/slog"

	"github.com/GoSim-25-26J-441/reading-list-api/config"
	"github.com/GoSim-25-26J-441/reading-list-api/internal/ratelimit"
)

// pruneSchedule is how often idle in-memory rate limit keys are dropped.
const pruneSchedule = "@every 1m"

// Limiter is the configured rate limiter plus whatever must be released on shutdown.
type Limiter struct {
	ratelimit.Limiter
	close func()
}

func (l *Limiter) Close() {
	if l.close != nil {
		l.close()
	}
}

// OpenLimiter builds the backend selected by RATE_LIMIT_BACKEND.
func OpenLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Limiter, error) {
	quota := ratelimit.Config{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}

	if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("rate limiter using redis", "addr", cfg.Redis.Addr)
		return &Limiter{
			Limiter: ratelimit.NewRedisLimiter(client, quota),
			close:   func() { _ = client.Close() },
		}, nil
	}

	mem := ratelimit.NewMemoryLimiter(quota)
	janitor := ratelimit.NewJanitor(mem, cfg.RateLimit.Window, logger)
	if err := janitor.Start(pruneSchedule); err != nil {
		return nil, err
	}
	return &Limiter{Limiter: mem, close: janitor.Stop}, nil
}
