package market

import (
	"testing"
	"time"
)

func TestBreakerOpensAfterFailures(t *testing.T) {
	cb := newCircuitBreaker("test", defaultBreakerConfig())

	if !cb.Allow() {
		t.Fatal("new breaker should allow requests")
	}

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != breakerClosed {
		t.Errorf("state = %v, want CLOSED below the threshold", cb.State())
	}

	cb.RecordFailure()
	if cb.State() != breakerOpen {
		t.Errorf("state = %v, want OPEN after three failures", cb.State())
	}
	if cb.Allow() {
		t.Error("open breaker should reject requests")
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	cb := newCircuitBreaker("test", defaultBreakerConfig())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != breakerClosed {
		t.Errorf("state = %v, want CLOSED after an interleaved success", cb.State())
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	config := defaultBreakerConfig()
	config.timeout = 10 * time.Millisecond
	cb := newCircuitBreaker("test", config)

	for i := 0; i < config.failureThreshold; i++ {
		cb.RecordFailure()
	}
	if cb.Allow() {
		t.Fatal("open breaker should reject before the timeout")
	}

	time.Sleep(2 * config.timeout)
	if !cb.Allow() {
		t.Fatal("breaker should allow a probe after the timeout")
	}
	if cb.State() != breakerHalfOpen {
		t.Errorf("state = %v, want HALF_OPEN", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != breakerClosed {
		t.Errorf("state = %v, want CLOSED after a successful probe", cb.State())
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	config := defaultBreakerConfig()
	config.timeout = 10 * time.Millisecond
	cb := newCircuitBreaker("test", config)

	for i := 0; i < config.failureThreshold; i++ {
		cb.RecordFailure()
	}
	time.Sleep(2 * config.timeout)
	if !cb.Allow() {
		t.Fatal("expected a probe to be allowed")
	}

	cb.RecordFailure()
	if cb.State() != breakerOpen {
		t.Errorf("state = %v, want OPEN after a failed probe", cb.State())
	}
}
