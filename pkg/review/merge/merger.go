package merge

import (
	"fmt"
	"strings"

	"github.com/reviewmesh/revcore/pkg/review"
)

// Merger collapses multiple passes for the same agent into one result.
type Merger struct {
	thresholds Thresholds
}

// NewMerger builds a Merger using the given near-duplicate thresholds,
// falling back to DefaultThresholds for a zero value.
func NewMerger(th Thresholds) *Merger {
	if th.BigramJaccard == 0 && th.LevenshteinSimilarity == 0 {
		th = DefaultThresholds
	}
	return &Merger{thresholds: th}
}

// MergeByAgent groups results by agentConfig.Name, preserving first-seen
// order, and merges each group into a single ReviewResult. It is
// idempotent: MergeByAgent(MergeByAgent(r)) == MergeByAgent(r), since a
// group of size 1 passes through unchanged and re-merging an already-merged
// single result is again a group of size 1.
func (m *Merger) MergeByAgent(results []review.ReviewResult) []review.ReviewResult {
	var order []string
	groups := make(map[string][]review.ReviewResult)

	for _, r := range results {
		name := r.AgentConfig.Name
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], r)
	}

	merged := make([]review.ReviewResult, 0, len(order))
	for _, name := range order {
		group := groups[name]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		merged = append(merged, m.mergeGroup(group))
	}
	return merged
}

// mergeGroup consolidates one agent's multiple passes into one result.
func (m *Merger) mergeGroup(group []review.ReviewResult) review.ReviewResult {
	var successes []review.ReviewResult
	var lastFailure review.ReviewResult
	anyFailed := false

	for _, r := range group {
		if r.Success {
			successes = append(successes, r)
		} else {
			anyFailed = true
			lastFailure = r
		}
	}

	if len(successes) == 0 {
		return lastFailure
	}

	byPrimaryKey := make(map[string]*AggregatedFinding)
	byFallbackKey := make(map[string]*AggregatedFinding)
	var order []*AggregatedFinding

	for _, r := range successes {
		pass := r.Pass
		blocks := parseFindingBlocks(r.ContentOrEmpty())

		if len(blocks) == 0 {
			content := r.ContentOrEmpty()
			key := "fallback|" + NormalizeText(content)
			if existing, ok := byFallbackKey[key]; ok {
				existing.addPass(pass)
				continue
			}
			f := newFallbackFinding(content, pass)
			byFallbackKey[f.fallbackKey] = f
			order = append(order, f)
			continue
		}

		for _, block := range blocks {
			incoming := newAggregatedFinding(block, pass)
			primaryKey := incoming.NormalizedTitle

			if existing, ok := byPrimaryKey[primaryKey]; ok {
				existing.addPass(pass)
				continue
			}

			if dup := m.findNearDuplicate(incoming, order); dup != nil {
				dup.addPass(pass)
				continue
			}

			byPrimaryKey[primaryKey] = incoming
			order = append(order, incoming)
		}
	}

	body := m.render(order, anyFailed)

	first := successes[0]
	return review.ReviewResult{
		AgentConfig: first.AgentConfig,
		Repository:  first.Repository,
		Content:     &body,
		Timestamp:   first.Timestamp,
		Success:     true,
		Pass:        0,
	}
}

// findNearDuplicate probes existing aggregated findings (in first-seen
// order) for a near-duplicate of incoming.
func (m *Merger) findNearDuplicate(incoming *AggregatedFinding, existing []*AggregatedFinding) *AggregatedFinding {
	if incoming.isFallback {
		return nil
	}
	for _, e := range existing {
		if e.isFallback {
			continue
		}
		if isNearDuplicate(incoming, e, m.thresholds) {
			return e
		}
	}
	return nil
}

// render emits the merged body: each finding as "### i. title", a
// "detected in passes" line when |passNumbers| > 1, the original body, with
// consecutive findings separated by "---".
func (m *Merger) render(findings []*AggregatedFinding, anyFailed bool) string {
	if len(findings) == 0 {
		return "指摘事項なし"
	}

	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, f.Title)
		if len(f.PassNumbers) > 1 {
			fmt.Fprintf(&b, "detected in passes: %s\n\n", joinInts(f.PassNumbers))
		}
		b.WriteString(f.Body)
	}

	if anyFailed {
		b.WriteString("\n\n_Note: one or more passes failed and are not reflected above._")
	}

	return b.String()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
