package utils

import (
	"sync"
	"time"
)

// RateLimiter bounds the number of calls allowed inside a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time
}

// NewRateLimiter creates a limiter allowing maxCalls per window.
func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
	}
}

// Allow records a call if the limit permits and reports whether it was allowed.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	kept := r.calls[:0]
	for _, t := range r.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.calls = kept

	if len(r.calls) >= r.maxCalls {
		return false
	}
	r.calls = append(r.calls, now)
	return true
}

// Wait blocks until a call is allowed.
func (r *RateLimiter) Wait() {
	for !r.Allow() {
		time.Sleep(100 * time.Millisecond)
	}
}
