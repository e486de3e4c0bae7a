package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore backs counters with a Postgres table so limits survive restarts and
// are shared across instances. Expired windows are cleaned up lazily on each
// increment.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps an existing connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Incr implements Store with an upsert on (key, window_start).
func (s *PGStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	start := time.Now().UTC().Truncate(window)

	var count int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO rate_limit_counters (key, window_start, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (key, window_start) DO UPDATE SET count = rate_limit_counters.count + 1
		 RETURNING count`,
		key, start,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	_, _ = s.pool.Exec(ctx,
		`DELETE FROM rate_limit_counters WHERE window_start < $1`,
		start.Add(-window),
	)
	return count, nil
}
