package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/breaker"
	"github.com/reviewmesh/revcore/pkg/review/collector"
	"github.com/reviewmesh/revcore/pkg/review/promptbuild"
	"github.com/reviewmesh/revcore/pkg/review/retry"
)

// Prompts bundles the fixed prompt strings an Agent needs beyond the
// per-agent instruction template: the local-source header, the
// local-review-result-request, and the shared follow-up prompt.
type Prompts struct {
	LocalSourceHeader    string
	LocalReviewResultAsk string
	FollowUpPrompt       string
}

// DefaultPrompts matches the kind of boilerplate follow-up prompts a
// loaded agent-definition file does not itself carry.
var DefaultPrompts = Prompts{
	LocalSourceHeader:    "## Source",
	LocalReviewResultAsk: "Please provide your review findings for the code above.",
	FollowUpPrompt:       "You have not yet provided a response. Please provide your review findings now.",
}

// Agent executes one logical review, potentially multi-pass, for one
// agent against one target.
type Agent struct {
	rctx     *review.ReviewContext
	breakers *breaker.Registry
	prompts  Prompts
	logger   *slog.Logger

	builder     *promptbuild.Builder
	resolver    *InstructionResolver
	configFact  *SessionConfigFactory
	flow        *MessageFlow
	retryConfig retry.Config
}

// NewAgent builds an Agent runner bound to one ReviewContext and the shared
// breaker registry.
func NewAgent(rctx *review.ReviewContext, breakers *breaker.Registry, prompts Prompts, retryCfg retry.Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	builder := promptbuild.New()
	return &Agent{
		rctx:        rctx,
		breakers:    breakers,
		prompts:     prompts,
		logger:      logger,
		builder:     builder,
		resolver:    NewInstructionResolver(builder),
		configFact:  NewSessionConfigFactory(nil),
		flow:        NewMessageFlow(nil),
		retryConfig: retryCfg,
	}
}

// RunMultiPass runs passes sequentially 1..passes over the same agent,
// returning one ReviewResult per pass for the merger to consolidate. A
// single-pass review is simply RunMultiPass(ctx, cfg,
// target, 1, onSourceComputed).
func (a *Agent) RunMultiPass(ctx context.Context, cfg review.AgentConfig, target review.ReviewTarget, passes int, onSourceComputed SourceComputedListener) []review.ReviewResult {
	if passes < 1 {
		passes = 1
	}
	results := make([]review.ReviewResult, 0, passes)
	for pass := 1; pass <= passes; pass++ {
		includeSource := pass == 1
		results = append(results, a.runPass(ctx, cfg, target, pass, includeSource, onSourceComputed))
	}
	return results
}

// runPass wraps one pass attempt in the retry executor, parameterized
// on whether the local source payload should be attached for this pass.
func (a *Agent) runPass(ctx context.Context, cfg review.AgentConfig, target review.ReviewTarget, pass int, includeSource bool, onSourceComputed SourceComputedListener) review.ReviewResult {
	executor := retry.NewExecutor(a.rctx.MaxRetries, a.retryConfig, a.logger)

	attempt := func(attemptNumber int) (review.ReviewResult, error) {
		return a.attemptPass(ctx, cfg, target, pass, includeSource, onSourceComputed)
	}
	mapErr := func(err error, attemptNumber int) review.ReviewResult {
		return review.NewFailureResult(cfg, target.Identifier(), err, pass, time.Now())
	}
	return executor.Execute(ctx, attempt, mapErr)
}

// attemptPass is the single-pass flow: breaker check, session
// open, prompt drive, breaker record, result assembly.
func (a *Agent) attemptPass(ctx context.Context, cfg review.AgentConfig, target review.ReviewTarget, pass int, includeSource bool, onSourceComputed SourceComputedListener) (review.ReviewResult, error) {
	now := time.Now()

	if !a.breakers.Review.AllowRequest() {
		return review.NewFailureResult(cfg, target.Identifier(), review.ErrBreakerOpen, pass, now), nil
	}

	resolved, err := a.resolveInstruction(ctx, cfg, target, includeSource, onSourceComputed)
	if err != nil {
		return review.ReviewResult{}, err
	}

	systemPrompt := a.builder.BuildSystemPrompt(cfg)
	systemPrompt = a.builder.AppendProjectInstructions(systemPrompt, a.rctx.CustomInstructions, a.rctx.OutputConstraints)

	sessionCfg := a.configFact.Create(cfg, a.rctx, review.SystemPromptAppend, systemPrompt, resolved.MCPServers)

	session, err := a.rctx.SessionClient.CreateSession(ctx, sessionCfg)
	if err != nil {
		a.breakers.Review.OnFailure()
		return review.ReviewResult{}, err
	}
	defer session.Close()

	sender := collector.NewMessageSender(a.rctx.Scheduler, a.rctx.Tuning, review.SystemClock{}, a.logger)

	hardTimeout := time.Duration(a.rctx.TimeoutMinutes) * time.Minute
	idleTimeout := time.Duration(a.rctx.IdleTimeoutMinutes) * time.Minute

	send := func(ctx context.Context, prompt string) (string, error) {
		return sender.Send(ctx, cfg.Name, session, prompt, idleTimeout, hardTimeout)
	}

	var content string
	if target.IsLocal() {
		content, err = a.flow.ExecuteLocal(ctx, send, resolved.Instruction, resolved.LocalSourceContent, LocalPrompts{
			LocalSourceHeader:    a.prompts.LocalSourceHeader,
			LocalReviewResultAsk: a.prompts.LocalReviewResultAsk,
			FollowUpPrompt:       a.prompts.FollowUpPrompt,
		})
	} else {
		content, err = a.flow.ExecuteRemote(ctx, send, resolved.Instruction, RemotePrompts{
			FollowUpPrompt: a.prompts.FollowUpPrompt,
		})
	}

	if err != nil {
		a.breakers.Review.OnFailure()
		return review.ReviewResult{}, err
	}

	if strings.TrimSpace(content) == "" {
		a.breakers.Review.OnFailure()
		return review.NewFailureResult(cfg, target.Identifier(), a.emptyContentError(resolved.MCPServers != nil), pass, time.Now()), nil
	}

	a.breakers.Review.OnSuccess()
	return review.NewSuccessResult(cfg, target.Identifier(), content, pass, time.Now()), nil
}

// emptyContentError distinguishes "with remote tools" from "without remote
// tools" in the empty-response failure message.
func (a *Agent) emptyContentError(withRemoteTools bool) error {
	if withRemoteTools {
		return fmt.Errorf("%w: session returned no content (remote tools were configured; the model may have timed out during tool calls)", review.ErrEmptyResponse)
	}
	return fmt.Errorf("%w: session returned no content", review.ErrEmptyResponse)
}

func (a *Agent) resolveInstruction(ctx context.Context, cfg review.AgentConfig, target review.ReviewTarget, includeSource bool, onSourceComputed SourceComputedListener) (ResolvedInstruction, error) {
	if target.IsLocal() {
		return a.resolver.ResolveLocal(ctx, a.rctx, cfg, target, includeSource, onSourceComputed)
	}
	return a.resolver.ResolveRemote(cfg, target, a.rctx.CachedMCPServers)
}
