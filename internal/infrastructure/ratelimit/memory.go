package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the single-process fallback used when no Redis address is
// configured, and in tests.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	bucket int64
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counts: make(map[string]int),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, clientKey string) (bool, error) {
	bucket := l.now().Unix() / int64(l.window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket != l.bucket {
		l.bucket = bucket
		l.counts = make(map[string]int)
	}
	l.counts[clientKey]++
	return l.counts[clientKey] <= l.limit, nil
}
