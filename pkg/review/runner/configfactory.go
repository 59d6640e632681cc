package runner

import "github.com/reviewmesh/revcore/pkg/review"

// ModelCapabilities reports what a model id supports, consulted when
// deciding whether to populate SessionConfig.ReasoningEffort.
type ModelCapabilities struct {
	SupportsReasoningEffort bool
}

// ModelCapabilitiesTable resolves a model id to its capabilities. Unknown
// models are treated as not supporting reasoning effort.
type ModelCapabilitiesTable map[string]ModelCapabilities

// DefaultModelCapabilities is a small built-in table; callers may supply
// their own via NewSessionConfigFactory.
var DefaultModelCapabilities = ModelCapabilitiesTable{
	"claude-opus-4":   {SupportsReasoningEffort: true},
	"claude-sonnet-4": {SupportsReasoningEffort: true},
	review.DefaultModel: {SupportsReasoningEffort: false},
}

// Resolve returns the capabilities for modelID, defaulting to "no support"
// for unknown models.
func (t ModelCapabilitiesTable) Resolve(modelID string) ModelCapabilities {
	return t[modelID]
}

// SessionConfigFactory assembles the session-configuration object consumed
// by SessionClient.
type SessionConfigFactory struct {
	models ModelCapabilitiesTable
}

// NewSessionConfigFactory builds a factory over the given capabilities
// table, falling back to DefaultModelCapabilities when nil.
func NewSessionConfigFactory(models ModelCapabilitiesTable) *SessionConfigFactory {
	if models == nil {
		models = DefaultModelCapabilities
	}
	return &SessionConfigFactory{models: models}
}

// Create assembles a SessionConfig for one pass. mcpServers is nil
// when not provided.
func (f *SessionConfigFactory) Create(cfg review.AgentConfig, rctx *review.ReviewContext, mode review.SystemPromptMode, systemPrompt string, mcpServers map[string]string) review.SessionConfig {
	reasoningEffort := ""
	if f.models.Resolve(cfg.Model).SupportsReasoningEffort {
		reasoningEffort = rctx.ReasoningEffort
	}

	return review.SessionConfig{
		Model:            cfg.Model,
		SystemPromptMode: mode,
		SystemPrompt:     systemPrompt,
		MCPServers:       mcpServers,
		ReasoningEffort:  reasoningEffort,
	}
}
