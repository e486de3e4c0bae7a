package ratelimit

import (
	"context"
	"log"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter applies a windowed limit per key on top of a Store.
type Limiter struct {
	store Store
	cfg   *Config
}

// NewLimiter creates a limiter. A nil store falls back to in-process counters.
func NewLimiter(store Store, cfg *Config) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	if cfg == nil {
		cfg = LoadConfig()
	}
	return &Limiter{store: store, cfg: cfg}
}

// Allow records one request under key and reports whether it is within the
// limit. A store failure allows the request: rate limiting degrades open
// rather than blocking the product when the counter backend is down.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if !l.cfg.Enabled {
		return Decision{Allowed: true, Limit: l.cfg.Limit, Remaining: l.cfg.Limit}
	}

	count, err := l.store.Incr(ctx, key, l.cfg.Window)
	if err != nil {
		log.Printf("ratelimit: counter store unavailable, allowing %s: %v", key, err)
		return Decision{Allowed: true, Limit: l.cfg.Limit}
	}

	d := Decision{
		Allowed:   count <= l.cfg.Limit,
		Limit:     l.cfg.Limit,
		Remaining: max(l.cfg.Limit-count, 0),
	}
	if !d.Allowed {
		elapsed := time.Since(time.Now().Truncate(l.cfg.Window))
		d.RetryAfter = l.cfg.Window - elapsed
	}
	return d
}
