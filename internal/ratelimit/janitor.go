package ratelimit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically prunes idle keys from a MemoryLimiter.
type Janitor struct {
	limiter *MemoryLimiter
	idle    time.Duration
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewJanitor(limiter *MemoryLimiter, idle time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		limiter: limiter,
		idle:    idle,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the prune job on the given cron spec, e.g. "@every 1m".
func (j *Janitor) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.RunOnce); err != nil {
		return fmt.Errorf("schedule rate limit pruning: %w", err)
	}
	j.cron.Start()
	j.logger.Info("rate limit janitor started", "schedule", spec, "idle", j.idle)
	return nil
}

// RunOnce prunes immediately.
func (j *Janitor) RunOnce() {
	if n := j.limiter.Prune(j.idle); n > 0 {
		j.logger.Debug("pruned idle rate limit keys", "removed", n)
	}
}

// Stop halts scheduling and waits for a running prune to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
