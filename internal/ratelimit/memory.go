// Package ratelimit provides fixed-window request limiters for httpx.RateLimit.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a fixed-window limiter that keeps its counters in process memory.
// Counts are per instance, so several replicas each allow the full limit.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	store     map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewMemory returns a limiter allowing limit requests per key per window.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:  limit,
		window: window,
		now:    time.Now,
		store:  make(map[string]*bucket),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	b, ok := m.store[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(m.window)}
		m.store[key] = b
	}

	if b.count >= m.limit {
		return false, b.resetAt.Sub(now), nil
	}
	b.count++
	return true, b.resetAt.Sub(now), nil
}

// sweepLocked drops expired buckets at most once per window.
func (m *Memory) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	for k, b := range m.store {
		if !now.Before(b.resetAt) {
			delete(m.store, k)
		}
	}
	m.lastSweep = now
}

// Len reports how many keys are currently tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}
