// Package orchestrator implements the Orchestrator: it owns the
// shared idle-timeout scheduler and the per-invocation caches, fans out
// (agent × pass) tasks with bounded parallelism, and assembles the final
// merged, summarized result set.
package orchestrator

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/breaker"
	"github.com/reviewmesh/revcore/pkg/review/merge"
	"github.com/reviewmesh/revcore/pkg/review/retry"
	"github.com/reviewmesh/revcore/pkg/review/runner"
	"github.com/reviewmesh/revcore/pkg/review/summary"
)

// Request bundles the per-invocation parameters.
type Request struct {
	Agents             []review.AgentConfig
	Target             review.ReviewTarget
	Token              string
	Parallelism        int
	Passes             int
	ReasoningEffort    string
	CustomInstructions []string
	OutputConstraints  string
}

// Config bundles the orchestration's shared, long-lived collaborators.
type Config struct {
	SessionClient            review.SessionClient
	TimeoutMinutes           int
	IdleTimeoutMinutes       int
	MaxRetries               int
	Tuning                   review.TuningParams
	LocalFileCollector       review.LocalFileCollector
	LocalFileConfig          review.LocalFileConfig
	RemoteToolConfigProvider review.RemoteToolConfigProvider
	BreakerConfig            breaker.Config
	RetryConfig              retry.Config
	Prompts                  runner.Prompts
	MergeThresholds          merge.Thresholds
	Clock                    review.Clock
	Logger                   *slog.Logger
}

// Result is the final outcome of one orchestration.
type Result struct {
	Results         []review.ReviewResult
	FindingsSummary string
}

// Orchestrator fans out agents with bounded parallelism, owns the shared
// scheduler for idle-timeout checks, caches the per-target source payload
// and remote-tool configuration, and aggregates results.
type Orchestrator struct {
	cfg       Config
	scheduler review.Scheduler
	breakers  *breaker.Registry
	clock     review.Clock
	logger    *slog.Logger

	inFlight  atomic.Int64
	completed atomic.Int64
}

// New builds an Orchestrator around a shared scheduler, which it takes
// ownership of (Close closes it). scheduler and breakers are supplied by the
// caller so tests can inject fakes; production callers should use
// collector.NewIdleTimeoutScheduler(minCheckInterval) and
// breaker.NewRegistry(cfg.BreakerConfig, clock).
func New(cfg Config, scheduler review.Scheduler, breakers *breaker.Registry) *Orchestrator {
	clock := cfg.Clock
	if clock == nil {
		clock = review.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, scheduler: scheduler, breakers: breakers, clock: clock, logger: logger}
}

// Run executes req: builds the ReviewContext, fans out one task per agent
// via a bounded worker pool (each task runs that agent's passes
// sequentially), merges per-agent passes, and produces the
// findings roll-up. The orchestrator never returns an
// error to the caller for per-agent failures; those are recorded in the
// returned Result.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	rctx := review.NewReviewContext(review.ReviewContext{
		SessionClient:      o.cfg.SessionClient,
		TimeoutMinutes:     o.cfg.TimeoutMinutes,
		IdleTimeoutMinutes: o.cfg.IdleTimeoutMinutes,
		MaxRetries:         o.cfg.MaxRetries,
		ReasoningEffort:    req.ReasoningEffort,
		CustomInstructions: req.CustomInstructions,
		OutputConstraints:  req.OutputConstraints,
		LocalFileCollector: o.cfg.LocalFileCollector,
		LocalFileConfig:    o.cfg.LocalFileConfig,
		Scheduler:          o.scheduler,
		Tuning:             o.cfg.Tuning,
	})
	if err := rctx.Validate(); err != nil {
		return Result{}, err
	}

	// The remote-tool configuration map is resolved once per orchestration,
	// before fan-out. A Local target, or a Remote target with no configured
	// provider, leaves it nil.
	if !req.Target.IsLocal() && o.cfg.RemoteToolConfigProvider != nil {
		mcpServers, err := o.cfg.RemoteToolConfigProvider.Resolve(ctx, req.Token, req.Target)
		if err != nil {
			return Result{}, err
		}
		rctx.CachedMCPServers = mcpServers
	}

	passes := req.Passes
	if passes < 1 {
		passes = 1
	}

	agentRunner := runner.NewAgent(rctx, o.breakers, o.cfg.Prompts, o.cfg.RetryConfig, o.logger)

	type taskResult struct {
		results []review.ReviewResult
	}

	tasks := make([]taskResult, len(req.Agents))
	g, gctx := errgroup.WithContext(ctx)
	if req.Parallelism > 0 {
		g.SetLimit(req.Parallelism)
	}

	for i, cfg := range req.Agents {
		i, cfg := i, cfg
		// executionID correlates this (agent, all-passes) task with
		// external logs/traces; it is assigned per fan-out task, not
		// stored on ReviewResult.
		executionID := uuid.New().String()
		g.Go(func() error {
			taskLogger := o.logger.With("agent", cfg.Name, "execution_id", executionID)
			taskLogger.Debug("agent task starting", "passes", passes)
			o.inFlight.Add(1)
			defer func() {
				o.inFlight.Add(-1)
				o.completed.Add(1)
			}()
			onSourceComputed := func(content string) {
				taskLogger.Debug("local source payload computed and cached")
			}
			tasks[i] = taskResult{results: agentRunner.RunMultiPass(gctx, cfg, req.Target, passes, onSourceComputed)}
			taskLogger.Debug("agent task finished")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var flat []review.ReviewResult
	for _, t := range tasks {
		flat = append(flat, t.results...)
	}

	merger := merge.NewMerger(o.cfg.MergeThresholds)
	merged := merger.MergeByAgent(flat)

	extractor := summary.NewExtractor()
	findings := extractor.Extract(merged)
	findingsSummary := extractor.Render(findings)

	return Result{Results: merged, FindingsSummary: findingsSummary}, nil
}

// Close releases the shared scheduler's resources.
func (o *Orchestrator) Close() {
	o.scheduler.Close()
}

// Health is a point-in-time operational snapshot: task counters plus every
// circuit breaker's state. All of it is in-memory and cleared with the
// Orchestrator.
type Health struct {
	InFlightTasks  int64
	CompletedTasks int64
	Breakers       []breaker.Metrics
	Timestamp      time.Time
}

// Health returns a point-in-time snapshot of in-flight/completed agent
// tasks (one per agent, covering all of its passes) across this
// Orchestrator's lifetime plus every
// circuit breaker's state.
func (o *Orchestrator) Health() Health {
	return Health{
		InFlightTasks:  o.inFlight.Load(),
		CompletedTasks: o.completed.Load(),
		Breakers:       o.breakers.MetricsSnapshot(),
		Timestamp:      o.clock.Now(),
	}
}
