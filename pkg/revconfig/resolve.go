package revconfig

import (
	"fmt"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/breaker"
	"github.com/reviewmesh/revcore/pkg/review/merge"
	"github.com/reviewmesh/revcore/pkg/review/retry"
)

// Resolved holds the concrete typed configuration the orchestrator consumes,
// converted from the YAML-decoded string/number fields.
type Resolved struct {
	Breaker          breaker.Config
	Retry            retry.Config
	MaxRetries       int
	Merge            merge.Thresholds
	Tuning           review.TuningParams
	MinCheckInterval time.Duration
}

// Resolve converts a YAMLConfig into the typed structs the core consumes,
// parsing every duration-string field.
func (c *YAMLConfig) Resolve() (Resolved, error) {
	resetTimeout, err := ParseDuration(c.Breaker.ResetTimeout, "30s")
	if err != nil {
		return Resolved{}, fmt.Errorf("revconfig: breaker.reset_timeout: %w", err)
	}
	backoffBase, err := ParseDuration(c.Retry.BackoffBase, "1s")
	if err != nil {
		return Resolved{}, fmt.Errorf("revconfig: retry.backoff_base: %w", err)
	}
	backoffMax, err := ParseDuration(c.Retry.BackoffMax, "8s")
	if err != nil {
		return Resolved{}, fmt.Errorf("revconfig: retry.backoff_max: %w", err)
	}
	minCheckInterval, err := ParseDuration(c.Scheduler.MinCheckInterval, "5s")
	if err != nil {
		return Resolved{}, fmt.Errorf("revconfig: scheduler.min_check_interval: %w", err)
	}

	return Resolved{
		Breaker: breaker.Config{
			FailureThreshold: c.Breaker.FailureThreshold,
			ResetTimeout:     resetTimeout,
		},
		Retry: retry.Config{
			BackoffBase: backoffBase,
			BackoffMax:  backoffMax,
		},
		MaxRetries: c.Retry.MaxRetries,
		Merge: merge.Thresholds{
			BigramJaccard:         c.Merge.BigramJaccard,
			LevenshteinSimilarity: c.Merge.LevenshteinSimilarity,
		},
		Tuning: review.TuningParams{
			MaxAccumulatedSize:         c.Tuning.MaxAccumulatedSize,
			InitialAccumulatedCapacity: c.Tuning.InitialAccumulatedCapacity,
		},
		MinCheckInterval: minCheckInterval,
	}, nil
}
