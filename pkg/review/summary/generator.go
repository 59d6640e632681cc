package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/breaker"
)

// PromptTemplates bundles the placeholder-bearing templates the AI path
// fills in.
type PromptTemplates struct {
	SystemPrompt         string // sent with SystemPromptReplace
	UserPromptTemplate   string // contains {{repository}}, {{results}}
	SuccessEntryTemplate string // contains {{displayName}}, {{content}}
	FailureEntryTemplate string // contains {{displayName}}, {{error}}
}

// ContentBudget bounds how much per-agent content the results section may
// include.
type ContentBudget struct {
	MaxContentPerAgent    int
	MaxTotalPromptContent int
}

// DefaultContentBudget matches a conservative default budget for the
// results section of the summary prompt.
var DefaultContentBudget = ContentBudget{MaxContentPerAgent: 4000, MaxTotalPromptContent: 24000}

// Config holds the generator's timing/retry knobs.
type Config struct {
	SummaryTimeout time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig is a reasonable default for the AI path.
var DefaultConfig = Config{
	SummaryTimeout: 2 * time.Minute,
	MaxAttempts:    3,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     8 * time.Second,
}

// Generator produces the executive-summary narrative.
type Generator struct {
	sessionClient review.SessionClient
	breaker       *breaker.CircuitBreaker
	templates     PromptTemplates
	budget        ContentBudget
	cfg           Config
	logger        *slog.Logger
}

// New builds a Generator bound to a SessionClient and the "summary" circuit
// breaker.
func New(sessionClient review.SessionClient, cb *breaker.CircuitBreaker, templates PromptTemplates, budget ContentBudget, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if budget.MaxContentPerAgent == 0 {
		budget = DefaultContentBudget
	}
	if cfg.MaxAttempts == 0 {
		cfg = DefaultConfig
	}
	return &Generator{
		sessionClient: sessionClient,
		breaker:       cb,
		templates:     templates,
		budget:        budget,
		cfg:           cfg,
		logger:        logger,
	}
}

// Generate produces the executive summary content for repository given its
// per-agent results. On any failure path it falls back to the deterministic
// template; summary generation is best-effort.
func (g *Generator) Generate(ctx context.Context, repository string, results []review.ReviewResult) string {
	content, err := g.generateAI(ctx, repository, results)
	if err != nil {
		g.logger.Warn("summary AI path failed, using deterministic fallback", "repository", repository, "error", err)
		return Fallback(results)
	}
	return content
}

// generateAI guards the whole attempt loop with the summary circuit breaker
// and makes up to maxAttempts attempts in total, spaced by the backoff
// library's exponential policy with its default ±50% randomization of each
// interval (not full jitter).
func (g *Generator) generateAI(ctx context.Context, repository string, results []review.ReviewResult) (string, error) {
	resultsSection := g.renderResultsSection(results)
	prompt := strings.NewReplacer(
		"{{repository}}", repository,
		"{{results}}", resultsSection,
	).Replace(g.templates.UserPromptTemplate)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.cfg.InitialBackoff
	policy.MaxInterval = g.cfg.MaxBackoff
	bo := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.cfg.MaxAttempts-1)), ctx)

	var content string
	err := backoff.Retry(func() error {
		if !g.breaker.AllowRequest() {
			return backoff.Permanent(review.ErrBreakerOpen)
		}

		summaryCtx, cancel := context.WithTimeout(ctx, g.cfg.SummaryTimeout)
		defer cancel()

		c, err := g.attempt(summaryCtx, prompt)
		if err != nil {
			g.breaker.OnFailure()
			return err
		}
		g.breaker.OnSuccess()
		content = c
		return nil
	}, bo)

	if err != nil {
		return "", err
	}
	return content, nil
}

// attempt opens one session in replace system-message mode, sends the
// prompt, and awaits a response up to the summary timeout.
func (g *Generator) attempt(ctx context.Context, prompt string) (string, error) {
	session, err := g.sessionClient.CreateSession(ctx, review.SessionConfig{
		SystemPromptMode: review.SystemPromptReplace,
		SystemPrompt:     g.templates.SystemPrompt,
	})
	if err != nil {
		return "", err
	}
	defer session.Close()

	// Event handlers run on transport threads and may fire more than once;
	// the mutex guards content/sendErr and finish makes completion single-shot.
	var mu sync.Mutex
	var content string
	var sendErr error
	var once sync.Once
	done := make(chan struct{})
	finish := func() { once.Do(func() { close(done) }) }

	messageCloser, err := session.Messages()(func(e review.EventData) {
		if strings.TrimSpace(e.Content) != "" {
			mu.Lock()
			content = e.Content
			mu.Unlock()
		}
	})
	if err != nil {
		return "", err
	}
	defer messageCloser.Close()

	idleCloser, err := session.Idle()(func(review.EventData) {
		finish()
	})
	if err != nil {
		return "", err
	}
	defer idleCloser.Close()

	errCloser, err := session.Errors()(func(e review.EventData) {
		mu.Lock()
		if sendErr == nil {
			sendErr = review.NewSessionEventError(e.ErrorMessage)
		}
		mu.Unlock()
		finish()
	})
	if err != nil {
		return "", err
	}
	defer errCloser.Close()

	if err := session.Send(ctx, prompt); err != nil {
		return "", err
	}

	select {
	case <-done:
		mu.Lock()
		defer mu.Unlock()
		if sendErr != nil {
			return "", sendErr
		}
		if strings.TrimSpace(content) == "" {
			return "", review.ErrEmptyResponse
		}
		return content, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// renderResultsSection iterates results, clipping each entry's content to
// the remaining budget.
func (g *Generator) renderResultsSection(results []review.ReviewResult) string {
	var b strings.Builder
	usedSoFar := 0

	for _, r := range results {
		if usedSoFar >= g.budget.MaxTotalPromptContent {
			break
		}

		if !r.Success {
			entry := strings.NewReplacer(
				"{{displayName}}", r.AgentConfig.EffectiveDisplayName(),
				"{{error}}", r.ErrorMessage,
			).Replace(g.templates.FailureEntryTemplate)
			b.WriteString(entry)
			usedSoFar += len(entry)
			continue
		}

		remaining := g.budget.MaxTotalPromptContent - usedSoFar
		limit := g.budget.MaxContentPerAgent
		if remaining < limit {
			limit = remaining
		}

		content := r.ContentOrEmpty()
		clipped := content
		truncated := false
		if len(content) > limit {
			clipped = content[:limit]
			truncated = true
		}
		if truncated {
			clipped += "... (truncated for summary)"
		}

		entry := strings.NewReplacer(
			"{{displayName}}", r.AgentConfig.EffectiveDisplayName(),
			"{{content}}", clipped,
		).Replace(g.templates.SuccessEntryTemplate)
		b.WriteString(entry)
		usedSoFar += len(clipped)
	}

	return b.String()
}

// ExecutiveReport assembles the final report template with the fixed
// placeholder set.
func ExecutiveReport(template string, date, repository string, agentCount, successCount, failureCount int, summaryContent, findingsSummary, reportLinks string) string {
	return strings.NewReplacer(
		"{{date}}", date,
		"{{repository}}", repository,
		"{{agentCount}}", fmt.Sprintf("%d", agentCount),
		"{{successCount}}", fmt.Sprintf("%d", successCount),
		"{{failureCount}}", fmt.Sprintf("%d", failureCount),
		"{{summaryContent}}", summaryContent,
		"{{findingsSummary}}", findingsSummary,
		"{{reportLinks}}", reportLinks,
	).Replace(template)
}

// ExecutiveSummaryFilename renders executive_summary_<timestamp>.md with
// a yyyy-MM-dd-HH-mm-ss timestamp.
func ExecutiveSummaryFilename(at time.Time) string {
	return fmt.Sprintf("executive_summary_%s.md", at.Format("2006-01-02-15-04-05"))
}
