// Package summary produces the deterministic findings roll-up and the
// executive-summary artifact (AI-generated, with a deterministic fallback).
package summary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reviewmesh/revcore/pkg/review"
)

// PriorityOrder fixes the group rendering order.
var PriorityOrder = []string{"Critical", "High", "Medium", "Low", "Unknown"}

var (
	extractorHeadingPattern  = regexp.MustCompile(`(?m)^###\s*\[?(\d+)\]?\.\s*(.+)$`)
	extractorPriorityPattern = regexp.MustCompile(`(?i)\|\s*\*{0,2}Priority\*{0,2}\s*\|\s*(Critical|High|Medium|Low)\s*\|`)
	noFindingsMarker         = "no findings"
	noFindingsMarkerJA       = "指摘事項なし"
)

// extractedFinding pairs one title with one priority for the roll-up.
type extractedFinding struct {
	title     string
	priority  string
	agentName string
}

// Extractor produces a deterministic Markdown roll-up from a set of
// successful, merged results.
type Extractor struct{}

// NewExtractor builds an Extractor.
func NewExtractor() *Extractor { return &Extractor{} }

// Extract scans each result for finding headings and priority cells,
// pairing the N-th title with the N-th priority.
func (e *Extractor) Extract(results []review.ReviewResult) []extractedFinding {
	var out []extractedFinding

	for _, r := range results {
		if !r.Success {
			continue
		}
		content := r.ContentOrEmpty()
		if isNoFindings(content) {
			continue
		}

		titles := extractTitles(content)
		priorities := extractPriorities(content)

		n := len(titles)
		if len(priorities) > n {
			n = len(priorities)
		}
		if n == 0 {
			continue
		}

		for i := 0; i < n; i++ {
			title := fmt.Sprintf("Finding %d", i+1)
			if i < len(titles) {
				title = titles[i]
			}
			priority := "Unknown"
			if i < len(priorities) {
				priority = priorities[i]
			}
			out = append(out, extractedFinding{
				title:     title,
				priority:  priority,
				agentName: r.AgentConfig.EffectiveDisplayName(),
			})
		}
	}

	return out
}

func isNoFindings(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, noFindingsMarker) || strings.Contains(content, noFindingsMarkerJA)
}

func extractTitles(content string) []string {
	matches := extractorHeadingPattern.FindAllStringSubmatch(content, -1)
	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = strings.TrimSpace(m[2])
	}
	return titles
}

func extractPriorities(content string) []string {
	matches := extractorPriorityPattern.FindAllStringSubmatch(content, -1)
	priorities := make([]string, len(matches))
	for i, m := range matches {
		priorities[i] = normalizePriorityCase(m[1])
	}
	return priorities
}

func normalizePriorityCase(p string) string {
	switch strings.ToLower(p) {
	case "critical":
		return "Critical"
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return "Unknown"
	}
}

// Render formats the extracted findings grouped by priority, in the fixed
// order Critical/High/Medium/Low/Unknown. No heading is
// emitted for an empty group.
func (e *Extractor) Render(findings []extractedFinding) string {
	grouped := make(map[string][]extractedFinding, len(PriorityOrder))
	for _, f := range findings {
		grouped[f.priority] = append(grouped[f.priority], f)
	}

	var b strings.Builder
	for _, priority := range PriorityOrder {
		group := grouped[priority]
		if len(group) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "#### %s (%d)\n\n", priority, len(group))
		for i, f := range group {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- **%s** — %s", f.title, f.agentName)
		}
	}

	return strings.TrimRight(b.String(), " \t\n")
}
