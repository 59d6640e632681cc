// Package review holds the core data model shared by every subsystem of the
// review orchestration engine: agent configuration, review targets, the
// per-orchestration context, and the external SessionClient surface the core
// consumes. Subpackages (collector, breaker, retry, promptbuild, runner,
// merge, summary, orchestrator) depend on this package; it depends on none
// of them, so interfaces that cross those boundaries are declared here.
package review

import (
	"fmt"
	"strings"
)

// SkillDescriptor names one skill an agent can draw on. The core treats it
// as an opaque, ordered label; skill file parsing lives outside the core.
type SkillDescriptor struct {
	Name        string
	Description string
}

// AgentConfig is an immutable descriptor of one review agent. It is created
// once at load time (outside this module) and never mutated; WithModel
// returns a copy with a different model.
type AgentConfig struct {
	Name                string
	DisplayName         string
	Model               string
	SystemPrompt        string
	InstructionTemplate string
	OutputFormat        string
	FocusAreas          []string
	Skills              []SkillDescriptor
}

// DefaultModel is used when an AgentConfig does not specify one.
const DefaultModel = "claude-default"

// NewAgentConfig normalizes an AgentConfig, filling in DisplayName and Model
// defaults. It does not validate; call Validate for that.
func NewAgentConfig(cfg AgentConfig) AgentConfig {
	if cfg.DisplayName == "" {
		cfg.DisplayName = cfg.Name
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}

// WithModel returns a copy of cfg with the model replaced.
func (a AgentConfig) WithModel(model string) AgentConfig {
	clone := a
	clone.Model = model
	return clone
}

// EffectiveDisplayName returns DisplayName, falling back to Name.
func (a AgentConfig) EffectiveDisplayName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// ErrUnusableAgentConfig is returned by Validate when a required field is blank.
var ErrUnusableAgentConfig = fmt.Errorf("agent config is not usable")

// Validate enforces the "usable" invariant: name, systemPrompt and
// instructionTemplate must all be non-blank.
func (a AgentConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(a.SystemPrompt) == "" {
		missing = append(missing, "systemPrompt")
	}
	if strings.TrimSpace(a.InstructionTemplate) == "" {
		missing = append(missing, "instructionTemplate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: missing %s", ErrUnusableAgentConfig, a.Name, strings.Join(missing, ", "))
	}
	return nil
}
