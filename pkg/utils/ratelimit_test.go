package utils

import (
	"testing"
	"time"
)

func TestRateLimiterAllows(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow() {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if limiter.Allow() {
		t.Error("fourth call should be rejected")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(2, 50*time.Millisecond)

	limiter.Allow()
	limiter.Allow()
	if limiter.Allow() {
		t.Fatal("limit should be exhausted")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow() {
		t.Error("calls should be allowed once the window slides past")
	}
}
