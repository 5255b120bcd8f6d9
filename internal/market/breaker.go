package market

import (
	"sync"
	"time"
)

// breakerState represents the state of an endpoint circuit breaker.
type breakerState string

const (
	breakerClosed   breakerState = "CLOSED"
	breakerOpen     breakerState = "OPEN"
	breakerHalfOpen breakerState = "HALF_OPEN"
)

// breakerConfig holds circuit breaker thresholds.
type breakerConfig struct {
	// failureThreshold is the number of consecutive failures before
	// the endpoint is skipped
	failureThreshold int
	// successThreshold is the number of successes in half-open state
	// before the endpoint is trusted again
	successThreshold int
	// timeout is how long an open breaker waits before allowing a probe
	timeout time.Duration
}

func defaultBreakerConfig() breakerConfig {
	return breakerConfig{
		failureThreshold: 3,
		successThreshold: 1,
		timeout:          30 * time.Second,
	}
}

// circuitBreaker tracks the health of a single API endpoint so repeated
// failures stop costing a timeout on every request cycle.
type circuitBreaker struct {
	name   string
	config breakerConfig

	mu              sync.Mutex
	state           breakerState
	failures        int
	successes       int
	lastStateChange time.Time
}

func newCircuitBreaker(name string, config breakerConfig) *circuitBreaker {
	return &circuitBreaker{
		name:            name,
		config:          config,
		state:           breakerClosed,
		lastStateChange: time.Now(),
	}
}

// Allow reports whether a request may be attempted. An open breaker
// transitions to half-open once its timeout has elapsed.
func (cb *circuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerClosed, breakerHalfOpen:
		return true
	case breakerOpen:
		if time.Since(cb.lastStateChange) >= cb.config.timeout {
			cb.transition(breakerHalfOpen)
			return true
		}
		return false
	}
	return true
}

// RecordSuccess notes a successful request.
func (cb *circuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	if cb.state == breakerHalfOpen {
		cb.successes++
		if cb.successes >= cb.config.successThreshold {
			cb.transition(breakerClosed)
		}
	}
}

// RecordFailure notes a failed request, opening the breaker once the
// failure threshold is reached.
func (cb *circuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.successes = 0
	cb.failures++
	if cb.state == breakerHalfOpen || cb.failures >= cb.config.failureThreshold {
		cb.transition(breakerOpen)
	}
}

// State returns the current breaker state.
func (cb *circuitBreaker) State() breakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) transition(state breakerState) {
	if cb.state == state {
		return
	}
	cb.state = state
	cb.failures = 0
	cb.successes = 0
	cb.lastStateChange = time.Now()
}
