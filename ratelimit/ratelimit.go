// Package ratelimit implements a fixed-window request budget per client
// key, guarding the whole search pipeline.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	count     int
	windowEnd time.Time
}

// Limiter counts requests per key inside fixed windows. Safe for concurrent
// use; the per-key read-modify-write is guarded so parallel callers cannot
// lose increments.
type Limiter struct {
	window     time.Duration
	budget     int
	maxBuckets int

	mu      sync.Mutex
	buckets map[string]bucket

	now func() time.Time
}

// New builds a limiter allowing budget requests per window per key.
// maxBuckets caps the tracked keys before expired buckets are swept.
func New(window time.Duration, budget, maxBuckets int) *Limiter {
	return &Limiter{
		window:     window,
		budget:     budget,
		maxBuckets: maxBuckets,
		buckets:    make(map[string]bucket),
		now:        time.Now,
	}
}

// Allow consumes one request from the key's current window. A key with no
// bucket, or an expired one, starts a fresh window. The sweep of expired
// buckets happens inline under the same lock; it is O(buckets) and never
// blocks on I/O.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) >= l.maxBuckets {
		l.sweepLocked(now)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = bucket{count: 1, windowEnd: now.Add(l.window)}
		return true
	}
	if b.count < l.budget {
		b.count++
		l.buckets[key] = b
		return true
	}
	return false
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, key)
		}
	}
}
