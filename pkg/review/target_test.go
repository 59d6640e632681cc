package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReviewTarget_DisplayName(t *testing.T) {
	local := NewLocalTarget("/home/user/projects/myapp")
	assert.Equal(t, "myapp", local.DisplayName())
	assert.True(t, local.IsLocal())
	assert.Equal(t, "/home/user/projects/myapp", local.Identifier())

	remote := NewRemoteTarget("owner/repo")
	assert.Equal(t, "owner/repo", remote.DisplayName())
	assert.False(t, remote.IsLocal())
	assert.Equal(t, "owner/repo", remote.Identifier())
}

func TestReviewTarget_DisplayName_TrailingSlash(t *testing.T) {
	local := NewLocalTarget("/home/user/projects/myapp/")
	assert.Equal(t, "myapp", local.DisplayName())
}

func TestAgentConfig_ValidateRequiresNonBlankFields(t *testing.T) {
	cfg := NewAgentConfig(AgentConfig{Name: "sec"})
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing systemPrompt/instructionTemplate")
	}
	assert.ErrorIs(t, err, ErrUnusableAgentConfig)
}

func TestAgentConfig_ValidateOK(t *testing.T) {
	cfg := NewAgentConfig(AgentConfig{
		Name:                "sec",
		SystemPrompt:        "You are a reviewer.",
		InstructionTemplate: "Review ${repository}",
	})
	assert.NoError(t, cfg.Validate())
}

func TestAgentConfig_WithModelReturnsCopy(t *testing.T) {
	cfg := NewAgentConfig(AgentConfig{Name: "sec"})
	other := cfg.WithModel("claude-opus-4")
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, "claude-opus-4", other.Model)
}

func TestReviewContext_Validate(t *testing.T) {
	rctx := NewReviewContext(ReviewContext{
		SessionClient:      fakeSessionClient{},
		TimeoutMinutes:     5,
		IdleTimeoutMinutes: 2,
		Scheduler:          fakeScheduler{},
	})
	assert.NoError(t, rctx.Validate())

	bad := NewReviewContext(ReviewContext{TimeoutMinutes: 0})
	assert.ErrorIs(t, bad.Validate(), ErrInvalidReviewContext)
}

type fakeSessionClient struct{}

func (fakeSessionClient) CreateSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	return nil, nil
}

type fakeScheduler struct{}

func (fakeScheduler) Schedule(probe IdleProbe, idleTimeout time.Duration) Cancellable {
	return fakeCancellable{}
}
func (fakeScheduler) Close() {}

type fakeCancellable struct{}

func (fakeCancellable) Cancel() {}
