package ratelimit

import (
	"context"
	"sync"
	"time"
)

type visitor struct {
	// hits holds the times of allowed requests inside the current window, oldest first.
	hits     []time.Time
	lastSeen time.Time
}

// MemoryLimiter keeps a sliding log per key: a request is allowed when fewer
// than Requests allowed requests happened in the Window before it.
type MemoryLimiter struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:      cfg,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// WithClock replaces the time source. Intended for tests.
func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	m.now = now
	return m
}

func (m *MemoryLimiter) Backend() string { return "memory" }

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	cutoff := now.Add(-m.cfg.Window)

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{hits: make([]time.Time, 0, m.cfg.Requests)}
		m.visitors[key] = v
	}
	v.lastSeen = now

	expired := 0
	for expired < len(v.hits) && !v.hits[expired].After(cutoff) {
		expired++
	}
	v.hits = v.hits[expired:]

	dec := Decision{Limit: m.cfg.Requests}
	if len(v.hits) >= m.cfg.Requests {
		dec.RetryAfter = v.hits[0].Add(m.cfg.Window).Sub(now)
		return dec, nil
	}

	v.hits = append(v.hits, now)
	dec.Allowed = true
	dec.Remaining = m.cfg.Requests - len(v.hits)
	return dec, nil
}

// Prune drops keys idle for longer than idle and returns how many were removed.
func (m *MemoryLimiter) Prune(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}
