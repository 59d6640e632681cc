package breaker

import "github.com/reviewmesh/revcore/pkg/review"

// Registry holds the three isolated circuit breaker instances (review,
// skill, summary) as a small, documented process-wide state keyed by
// call path. Initialized once at startup from a single configuration
// record.
type Registry struct {
	Review  *CircuitBreaker
	Skill   *CircuitBreaker
	Summary *CircuitBreaker
}

// NewRegistry builds a Registry with all three breakers sharing one
// configuration and clock.
func NewRegistry(cfg Config, clock review.Clock) *Registry {
	return &Registry{
		Review:  New(PathReview, cfg, clock),
		Skill:   New(PathSkill, cfg, clock),
		Summary: New(PathSummary, cfg, clock),
	}
}

// All returns every breaker in the registry, for metrics snapshots.
func (r *Registry) All() []*CircuitBreaker {
	return []*CircuitBreaker{r.Review, r.Skill, r.Summary}
}

// MetricsSnapshot returns a Metrics value per breaker.
func (r *Registry) MetricsSnapshot() []Metrics {
	all := r.All()
	out := make([]Metrics, len(all))
	for i, b := range all {
		out[i] = b.Metrics()
	}
	return out
}

// Reset restores every breaker in the registry to closed, for tests.
func (r *Registry) Reset() {
	for _, b := range r.All() {
		b.Reset()
	}
}
