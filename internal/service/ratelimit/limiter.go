// Package ratelimit implements a per-key token bucket used to keep the
// upstream fetchers (Yahoo, EIA, FRED) polite.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

func (b *bucket) refill(now time.Time, capacity, perSec float64) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * perSec
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.last = now
}

// Limiter tracks one token bucket per key. Buckets are created on first use
// with a full allowance.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow consumes one token for key if available. capacity caps the burst
// and refillPerSec is the sustained rate.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, last: now}
		l.m[key] = b
	}
	b.refill(now, capacity, refillPerSec)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
