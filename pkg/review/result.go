package review

import "time"

// ReviewResult is the outcome of one agent pass. Exactly one of Content
// and ErrorMessage is meaningful given Success; both are nil/empty in no
// valid state, but callers should branch on Success rather than on field
// presence.
type ReviewResult struct {
	AgentConfig  AgentConfig
	Repository   string
	Content      *string
	Timestamp    time.Time
	Success      bool
	ErrorMessage string

	// Pass is the 1-based pass number this result belongs to (1 for a
	// single-pass agent). Zero for a result the merger consolidated from
	// several passes.
	Pass int
}

// NewSuccessResult builds a successful ReviewResult.
func NewSuccessResult(cfg AgentConfig, repository, content string, pass int, at time.Time) ReviewResult {
	c := content
	return ReviewResult{
		AgentConfig: cfg,
		Repository:  repository,
		Content:     &c,
		Timestamp:   at,
		Success:     true,
		Pass:        pass,
	}
}

// NewFailureResult builds a failed ReviewResult carrying the error that
// ended the pass. A failed result never panics the orchestrator: agent
// failures are data, not control flow.
func NewFailureResult(cfg AgentConfig, repository string, err error, pass int, at time.Time) ReviewResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return ReviewResult{
		AgentConfig:  cfg,
		Repository:   repository,
		Timestamp:    at,
		Success:      false,
		ErrorMessage: msg,
		Pass:         pass,
	}
}

// ContentOrEmpty returns the result's content, or "" if none was produced.
func (r ReviewResult) ContentOrEmpty() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}
