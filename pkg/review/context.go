package review

import (
	"context"
	"fmt"
)

// TuningParams bounds the ContentCollector's memory footprint.
type TuningParams struct {
	MaxAccumulatedSize         int
	InitialAccumulatedCapacity int
}

// DefaultTuningParams is generous enough for a multi-page review while
// capping what a runaway transport can make the collector buffer.
var DefaultTuningParams = TuningParams{
	MaxAccumulatedSize:         2 << 20, // 2 MiB
	InitialAccumulatedCapacity: 4096,
}

// LocalFileConfig configures the external file-collection collaborator.
// The core treats its contents as opaque pass-through data.
type LocalFileConfig struct {
	IncludeGlobs []string
	ExcludeGlobs []string
	MaxFiles     int
	MaxBytes     int
}

// LocalFileCollector collects and renders a local directory's source into a
// single payload string for the "local source" prompt slot. File walking
// and filtering live behind this interface, outside the core.
type LocalFileCollector interface {
	Collect(ctx context.Context, directory string, cfg LocalFileConfig) (string, error)
}

// RemoteToolConfigProvider resolves the opaque remote-tool configuration map
// for a Remote target from the request's access token. The core never dials
// these servers itself; it only precomputes and caches the map this
// interface returns, passing it to the transport verbatim.
type RemoteToolConfigProvider interface {
	Resolve(ctx context.Context, token string, target ReviewTarget) (map[string]string, error)
}

// ReviewContext is the immutable bundle passed by reference to every agent
// runner. It is built once per orchestration by the Orchestrator.
type ReviewContext struct {
	SessionClient SessionClient

	TimeoutMinutes     int
	IdleTimeoutMinutes int
	MaxRetries         int

	// ReasoningEffort is empty when absent.
	ReasoningEffort string

	CustomInstructions []string

	// OutputConstraints is empty when absent.
	OutputConstraints string

	LocalFileCollector LocalFileCollector
	LocalFileConfig    LocalFileConfig

	Scheduler Scheduler
	Tuning    TuningParams

	// CachedMCPServers is the remote-tool configuration map, computed once
	// by the Orchestrator before fan-out for a Remote target. Nil means
	// absent (local target, or a remote target with no tool configuration).
	CachedMCPServers map[string]string

	// CachedSourceContent memoizes the local-target source payload across
	// agents and passes. Always non-nil; Peek() reports whether a value
	// has been installed yet.
	CachedSourceContent *SourceCache
}

// NewReviewContext builds a ReviewContext with the source cache initialized
// and tuning defaults applied where the caller left them zero.
func NewReviewContext(base ReviewContext) *ReviewContext {
	if base.Tuning.MaxAccumulatedSize == 0 {
		base.Tuning.MaxAccumulatedSize = DefaultTuningParams.MaxAccumulatedSize
	}
	if base.Tuning.InitialAccumulatedCapacity == 0 {
		base.Tuning.InitialAccumulatedCapacity = DefaultTuningParams.InitialAccumulatedCapacity
	}
	base.CachedSourceContent = &SourceCache{}
	return &base
}

// ErrInvalidReviewContext is returned by Validate for a malformed context.
var ErrInvalidReviewContext = fmt.Errorf("invalid review context")

// Validate enforces the ReviewContext invariants.
func (c *ReviewContext) Validate() error {
	if c.TimeoutMinutes <= 0 {
		return fmt.Errorf("%w: timeoutMinutes must be > 0", ErrInvalidReviewContext)
	}
	if c.IdleTimeoutMinutes <= 0 {
		return fmt.Errorf("%w: idleTimeoutMinutes must be > 0", ErrInvalidReviewContext)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: maxRetries must be >= 0", ErrInvalidReviewContext)
	}
	if c.Scheduler == nil {
		return fmt.Errorf("%w: sharedScheduler must not be nil", ErrInvalidReviewContext)
	}
	if c.SessionClient == nil {
		return fmt.Errorf("%w: sessionClient must not be nil", ErrInvalidReviewContext)
	}
	return nil
}
