package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start  time.Time
	length time.Duration
	count  int
}

// MemoryStore keeps counters in process. Expired windows are swept lazily.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	hits    int
}

const sweepEvery = 1024

// NewMemoryStore builds an in-process store; now defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{windows: make(map[string]*window), now: now}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, rule Rule) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := s.now()
	if !rule.Enabled() {
		return Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit, ResetAt: now}, nil
	}
	start := windowStart(now, rule.Window)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
	if s.hits%sweepEvery == 0 {
		s.sweep(now)
	}
	w, ok := s.windows[key]
	if !ok || !w.start.Equal(start) {
		w = &window{start: start, length: rule.Window}
		s.windows[key] = w
	}
	w.count++
	return result(w.count, rule, start.Add(rule.Window)), nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.start.Add(w.length)) {
			delete(s.windows, k)
		}
	}
}
