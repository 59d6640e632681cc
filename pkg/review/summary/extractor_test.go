package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reviewmesh/revcore/pkg/review"
)

func resultWithPriority(agentName, priority string) review.ReviewResult {
	cfg := review.NewAgentConfig(review.AgentConfig{Name: agentName, DisplayName: agentName})
	content := "### 1. Some finding\n\n| Item | Value |\n|------|-------|\n| Priority | " + priority + " |\n"
	return review.NewSuccessResult(cfg, "o/r", content, 1, time.Now())
}

func TestExtract_OrdersPriorityGroupsFixed(t *testing.T) {
	e := NewExtractor()
	results := []review.ReviewResult{
		resultWithPriority("a", "Low"),
		resultWithPriority("b", "Critical"),
		resultWithPriority("c", "Medium"),
	}
	findings := e.Extract(results)
	rendered := e.Render(findings)

	criticalIdx := indexOfSub(rendered, "#### Critical (1)")
	mediumIdx := indexOfSub(rendered, "#### Medium (1)")
	lowIdx := indexOfSub(rendered, "#### Low (1)")

	assert.True(t, criticalIdx >= 0 && mediumIdx >= 0 && lowIdx >= 0)
	assert.True(t, criticalIdx < mediumIdx)
	assert.True(t, mediumIdx < lowIdx)
	assert.NotContains(t, rendered, "#### High")
	assert.NotContains(t, rendered, "#### Unknown")
}

func TestExtract_SkipsNoFindingsMarker(t *testing.T) {
	e := NewExtractor()
	cfg := review.NewAgentConfig(review.AgentConfig{Name: "a"})
	r := review.NewSuccessResult(cfg, "o/r", "指摘事項なし", 1, time.Now())
	findings := e.Extract([]review.ReviewResult{r})
	assert.Empty(t, findings)
}

func TestExtract_TitlesOnlyDefaultToUnknownPriority(t *testing.T) {
	e := NewExtractor()
	cfg := review.NewAgentConfig(review.AgentConfig{Name: "a", DisplayName: "Agent A"})
	r := review.NewSuccessResult(cfg, "o/r", "### 1. First issue\n\nbody\n\n### 2. Second issue\n\nbody", 1, time.Now())
	findings := e.Extract([]review.ReviewResult{r})
	assert.Len(t, findings, 2)
	assert.Equal(t, "Unknown", findings[0].priority)
	assert.Equal(t, "First issue", findings[0].title)
}

func TestExtract_PrioritiesOnlySynthesizeTitles(t *testing.T) {
	e := NewExtractor()
	cfg := review.NewAgentConfig(review.AgentConfig{Name: "a"})
	content := "| Priority | High |\n\nsome narrative\n\n| Priority | Low |\n"
	r := review.NewSuccessResult(cfg, "o/r", content, 1, time.Now())
	findings := e.Extract([]review.ReviewResult{r})
	assert.Len(t, findings, 2)
	assert.Equal(t, "Finding 1", findings[0].title)
	assert.Equal(t, "High", findings[0].priority)
	assert.Equal(t, "Finding 2", findings[1].title)
	assert.Equal(t, "Low", findings[1].priority)
}

func TestRender_NoHeadingForEmptyGroup(t *testing.T) {
	e := NewExtractor()
	rendered := e.Render(nil)
	assert.Equal(t, "", rendered)
}

func indexOfSub(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
