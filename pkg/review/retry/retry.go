// Package retry implements the deterministic doubling-backoff retry loop
// every single-pass agent attempt is wrapped in.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
)

// Config holds the backoff parameters.
type Config struct {
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// DefaultConfig is the standard doubling sequence: 1s, 2s, 4s, 8s.
var DefaultConfig = Config{BackoffBase: time.Second, BackoffMax: 8 * time.Second}

// Attempt produces one ReviewResult, or an error if the attempt could not
// even be made to run (mapped by Executor via exceptionMapper).
type Attempt func(attemptNumber int) (review.ReviewResult, error)

// ExceptionMapper maps an error from a failed Attempt invocation into an
// unsuccessful ReviewResult.
type ExceptionMapper func(err error, attemptNumber int) review.ReviewResult

// Executor runs an Attempt up to maxRetries+1 times with exponential
// backoff.
type Executor struct {
	cfg        Config
	maxRetries int
	logger     *slog.Logger
}

// NewExecutor builds an Executor with maxRetries additional attempts beyond
// the first.
func NewExecutor(maxRetries int, cfg Config, logger *slog.Logger) *Executor {
	if cfg.BackoffBase <= 0 {
		cfg = DefaultConfig
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{cfg: cfg, maxRetries: maxRetries, logger: logger}
}

// Execute runs attempt up to maxRetries+1 times.
func (e *Executor) Execute(ctx context.Context, attempt Attempt, mapErr ExceptionMapper) review.ReviewResult {
	var last review.ReviewResult

	for attemptNumber := 1; attemptNumber <= e.maxRetries+1; attemptNumber++ {
		result, err := attempt(attemptNumber)
		if err != nil {
			result = mapErr(err, attemptNumber)
		}

		if result.Success {
			if attemptNumber > 1 {
				e.logger.Info("review attempt succeeded after retry", "attempt", attemptNumber)
			}
			return result
		}

		last = result
		if attemptNumber <= e.maxRetries {
			backoff := e.backoffFor(attemptNumber)
			if !sleepOrCancel(ctx, backoff) {
				return last
			}
			continue
		}
	}
	return last
}

// backoffFor computes min(backoffBase << (attempt-1), backoffMax).
func (e *Executor) backoffFor(attemptNumber int) time.Duration {
	shift := attemptNumber - 1
	if shift > 32 {
		shift = 32
	}
	backoff := e.cfg.BackoffBase << uint(shift)
	if backoff <= 0 || backoff > e.cfg.BackoffMax {
		return e.cfg.BackoffMax
	}
	return backoff
}

// sleepOrCancel sleeps for d, returning false early if ctx is cancelled.
func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

