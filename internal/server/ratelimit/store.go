package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store counts events per key within fixed windows.
type Store interface {
	// Incr records one event under key for the window containing now and
	// returns the resulting count within that window.
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Counters reset when the process restarts.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	start time.Time
	count int
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*memoryWindow)}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now().Truncate(window)
	w, ok := s.windows[key]
	if !ok || !w.start.Equal(start) {
		w = &memoryWindow{start: start}
		s.windows[key] = w
	}
	w.count++

	// Opportunistic pruning keeps the map from growing with stale windows.
	for k, old := range s.windows {
		if old.start.Before(start) {
			delete(s.windows, k)
		}
	}
	return w.count, nil
}
