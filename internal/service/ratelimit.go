package service

import (
	"sync"
	"time"
)

// RateLimiter is an in-memory per-key token bucket, used to slow down
// credential guessing on the auth endpoints. Safe for concurrent use.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	lastGC   time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter allows bursts of up to capacity requests per key, refilling
// at rate tokens per second.
func NewRateLimiter(rate, capacity float64) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		lastGC:   time.Now(),
	}
}

// Allow reports whether the key may proceed, consuming one token if so.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.gc(now)

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, last: now}
		rl.buckets[key] = b
	}

	b.tokens = min(b.tokens+now.Sub(b.last).Seconds()*rl.rate, rl.capacity)
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// gc drops buckets idle long enough to have refilled completely. Runs at most
// once per minute, piggybacking on Allow so no background goroutine is needed.
func (rl *RateLimiter) gc(now time.Time) {
	if now.Sub(rl.lastGC) < time.Minute {
		return
	}
	rl.lastGC = now

	idle := time.Duration(rl.capacity/rl.rate*float64(time.Second)) + time.Minute
	for key, b := range rl.buckets {
		if now.Sub(b.last) > idle {
			delete(rl.buckets, key)
		}
	}
}
