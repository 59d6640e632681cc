package runner

import (
	"context"
	"fmt"

	"github.com/reviewmesh/revcore/pkg/review"
	"github.com/reviewmesh/revcore/pkg/review/promptbuild"
)

// ResolvedInstruction is the (instruction, localSourceContent?, mcpServers?)
// triple produced for one target.
type ResolvedInstruction struct {
	Instruction        string
	LocalSourceContent string
	MCPServers         map[string]string
}

// SourceComputedListener is fired once, when the local source payload is
// first computed and installed into the shared context cache
// (ReviewContext.CachedSourceContent) for subsequent agents.
type SourceComputedListener func(content string)

// InstructionResolver produces the prompt triple for one target.
type InstructionResolver struct {
	builder *promptbuild.Builder
}

// NewInstructionResolver builds an InstructionResolver.
func NewInstructionResolver(builder *promptbuild.Builder) *InstructionResolver {
	return &InstructionResolver{builder: builder}
}

// ResolveRemote renders the instruction for a Remote target and returns the
// cached MCP server map verbatim.
func (r *InstructionResolver) ResolveRemote(cfg review.AgentConfig, target review.ReviewTarget, mcpServers map[string]string) (ResolvedInstruction, error) {
	instruction, err := r.builder.BuildInstruction(cfg, target.DisplayName())
	if err != nil {
		return ResolvedInstruction{}, err
	}
	return ResolvedInstruction{Instruction: instruction, MCPServers: mcpServers}, nil
}

// ResolveLocal renders the instruction for a Local target, reusing
// ctx.CachedSourceContent when already installed, otherwise collecting via
// ctx.LocalFileCollector, installing the result in that cache for
// subsequent agents, and notifying onComputed.
func (r *InstructionResolver) ResolveLocal(ctx context.Context, rctx *review.ReviewContext, cfg review.AgentConfig, target review.ReviewTarget, includeSource bool, onComputed SourceComputedListener) (ResolvedInstruction, error) {
	instruction, err := r.builder.BuildInstruction(cfg, target.DisplayName())
	if err != nil {
		return ResolvedInstruction{}, err
	}

	if !includeSource {
		return ResolvedInstruction{Instruction: instruction}, nil
	}

	if rctx.LocalFileCollector == nil {
		return ResolvedInstruction{}, fmt.Errorf("review: local target requires a LocalFileCollector")
	}

	// computed is set only for the caller whose compute runs under the cache
	// lock and installs the value, so concurrent first callers notify once.
	computed := false
	content, err := rctx.CachedSourceContent.GetOrCompute(func() (string, error) {
		computed = true
		return rctx.LocalFileCollector.Collect(ctx, target.Directory, rctx.LocalFileConfig)
	})
	if err != nil {
		return ResolvedInstruction{}, err
	}

	if computed && onComputed != nil {
		onComputed(content)
	}

	return ResolvedInstruction{Instruction: instruction, LocalSourceContent: content}, nil
}
