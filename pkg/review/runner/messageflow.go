// Package runner implements the agent runner: the message flow, the
// target instruction resolver, the session-config factory, and the Agent
// that drives a single logical review.
package runner

import (
	"context"
	"strings"
)

// PromptSender sends one prompt and returns its collected content, matching
// the surface a MessageSender provides once bound to a session.
type PromptSender func(ctx context.Context, prompt string) (string, error)

// ResponseEvaluator decides whether a response is usable. The default is
// "non-null and non-blank".
type ResponseEvaluator func(content string, err error) bool

// DefaultResponseEvaluator accepts any non-blank, error-free response.
func DefaultResponseEvaluator(content string, err error) bool {
	return err == nil && strings.TrimSpace(content) != ""
}

// LocalPrompts bundles the extra local-target prompt strings used by the
// follow-up sequence.
type LocalPrompts struct {
	LocalSourceHeader    string
	LocalReviewResultAsk string
	FollowUpPrompt       string
}

// RemotePrompts bundles the follow-up prompt for a remote target.
type RemotePrompts struct {
	FollowUpPrompt string
}

// MessageFlow orchestrates the prompt-send sequence for one pass.
type MessageFlow struct {
	evaluator ResponseEvaluator
}

// NewMessageFlow builds a MessageFlow with the given evaluator, falling back
// to DefaultResponseEvaluator when nil.
func NewMessageFlow(evaluator ResponseEvaluator) *MessageFlow {
	if evaluator == nil {
		evaluator = DefaultResponseEvaluator
	}
	return &MessageFlow{evaluator: evaluator}
}

// ExecuteRemote implements the remote-target protocol: send(instruction),
// and on an unsatisfying response, send(followUpPrompt).
func (f *MessageFlow) ExecuteRemote(ctx context.Context, send PromptSender, instruction string, prompts RemotePrompts) (string, error) {
	content, err := send(ctx, instruction)
	if f.evaluator(content, err) {
		return content, nil
	}
	return send(ctx, prompts.FollowUpPrompt)
}

// ExecuteLocal implements the local-target protocol: a single concatenated
// prompt (instruction ⟂ localSourceHeader ⟂ sourceContent) when
// localSourceContent is non-empty, then the local-review-result-request
// prompt, then the follow-up prompt. The source header is never sent when
// localSourceContent is empty.
func (f *MessageFlow) ExecuteLocal(ctx context.Context, send PromptSender, instruction, localSourceContent string, prompts LocalPrompts) (string, error) {
	firstPrompt := instruction
	if localSourceContent != "" {
		firstPrompt = instruction + "\n\n" + prompts.LocalSourceHeader + "\n\n" + localSourceContent
	}

	content, err := send(ctx, firstPrompt)
	if f.evaluator(content, err) {
		return content, nil
	}

	content, err = send(ctx, prompts.LocalReviewResultAsk)
	if f.evaluator(content, err) {
		return content, nil
	}

	return send(ctx, prompts.FollowUpPrompt)
}
