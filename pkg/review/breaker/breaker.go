// Package breaker implements the per-call-path circuit breaker primitive
// shared by every agent runner and the summary generator.
package breaker

import (
	"sync/atomic"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
)

// CallPath names one of the three isolated breaker instances.
type CallPath string

const (
	PathReview  CallPath = "review"
	PathSkill   CallPath = "skill"
	PathSummary CallPath = "summary"
)

// Config holds the reconfigurable parameters for a CircuitBreaker.
type Config struct {
	FailureThreshold int64
	ResetTimeout     time.Duration
}

// DefaultConfig is threshold 8, reset timeout 30s.
var DefaultConfig = Config{FailureThreshold: 8, ResetTimeout: 30 * time.Second}

// CircuitBreaker limits cascading failures across agents sharing one
// transport. openedAt is stored as
// UnixNano; -1 denotes closed.
type CircuitBreaker struct {
	path CallPath

	clock review.Clock

	threshold    int64
	resetTimeout time.Duration

	failures atomic.Int64
	openedAt atomic.Int64 // unix nanos; -1 when closed
}

// New builds a CircuitBreaker for the given call path and configuration.
func New(path CallPath, cfg Config, clock review.Clock) *CircuitBreaker {
	if clock == nil {
		clock = review.SystemClock{}
	}
	cb := &CircuitBreaker{
		path:         path,
		clock:        clock,
		threshold:    cfg.FailureThreshold,
		resetTimeout: cfg.ResetTimeout,
	}
	cb.openedAt.Store(-1)
	return cb
}

// Path returns the call path this instance guards.
func (cb *CircuitBreaker) Path() CallPath { return cb.path }

// AllowRequest decides whether a call may proceed, including the
// fail-open branch for an inconsistent state and the CAS-guarded
// half-open transition.
func (cb *CircuitBreaker) AllowRequest() bool {
	failures := cb.failures.Load()
	if failures < cb.threshold {
		return true
	}

	openedAt := cb.openedAt.Load()
	if openedAt < 0 {
		// Threshold reached but no open time recorded: inconsistent state,
		// fail open.
		return true
	}

	elapsed := cb.clock.Now().Sub(time.Unix(0, openedAt))
	if elapsed < cb.resetTimeout {
		return false
	}

	// Attempt the single concurrent transition into half-open.
	if cb.failures.CompareAndSwap(cb.threshold, cb.threshold-1) {
		cb.openedAt.Store(-1)
		return true
	}
	return false
}

// OnSuccess resets the breaker to closed.
func (cb *CircuitBreaker) OnSuccess() {
	cb.failures.Store(0)
	cb.openedAt.Store(-1)
}

// OnFailure records one failure, opening the breaker if the threshold is
// reached for the first time.
func (cb *CircuitBreaker) OnFailure() {
	failures := cb.failures.Add(1)
	if failures >= cb.threshold && cb.openedAt.Load() < 0 {
		cb.openedAt.CompareAndSwap(-1, cb.clock.Now().UnixNano())
	}
}

// State reports the breaker's current coarse state as a string, for logging
// and the metrics snapshot below.
func (cb *CircuitBreaker) State() string {
	failures := cb.failures.Load()
	if failures < cb.threshold {
		return "closed"
	}
	openedAt := cb.openedAt.Load()
	if openedAt < 0 {
		return "half-open"
	}
	if cb.clock.Now().Sub(time.Unix(0, openedAt)) >= cb.resetTimeout {
		return "half-open"
	}
	return "open"
}

// Metrics is a point-in-time snapshot of breaker state, exposed through the
// orchestrator's health endpoint (supplemented feature, grounded on the
// CircuitBreakerMetrics shape used elsewhere in the pack).
type Metrics struct {
	Path              CallPath
	State             string
	Failures          int64
	Threshold         int64
	ResetTimeout      time.Duration
	SecondsUntilReset float64
}

// Metrics returns a snapshot of the breaker's state.
func (cb *CircuitBreaker) Metrics() Metrics {
	state := cb.State()
	m := Metrics{
		Path:         cb.path,
		State:        state,
		Failures:     cb.failures.Load(),
		Threshold:    cb.threshold,
		ResetTimeout: cb.resetTimeout,
	}
	if state == "open" {
		openedAt := cb.openedAt.Load()
		if openedAt >= 0 {
			remaining := cb.resetTimeout - cb.clock.Now().Sub(time.Unix(0, openedAt))
			if remaining > 0 {
				m.SecondsUntilReset = remaining.Seconds()
			}
		}
	}
	return m
}

// Reset restores the breaker to its closed state, for use by tests.
func (cb *CircuitBreaker) Reset() {
	cb.failures.Store(0)
	cb.openedAt.Store(-1)
}
