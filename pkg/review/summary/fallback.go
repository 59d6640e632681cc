package summary

import (
	"fmt"
	"strings"

	"github.com/reviewmesh/revcore/pkg/review"
)

// ExcerptLength bounds the per-agent excerpt used in the deterministic
// fallback summary.
const ExcerptLength = 240

// collapseWhitespace folds runs of whitespace (including newlines) into a
// single space, matching the fallback template's "whitespace is collapsed".
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// excerpt truncates s to n runes, collapsing whitespace first.
func excerpt(s string, n int) string {
	collapsed := collapseWhitespace(s)
	runes := []rune(collapsed)
	if len(runes) <= n {
		return collapsed
	}
	return string(runes[:n]) + "..."
}

// Fallback renders the deterministic summary: a table row per agent with an
// excerpt, plus per-agent success/failure blocks.
func Fallback(results []review.ReviewResult) string {
	var b strings.Builder

	b.WriteString("| Agent | Status | Excerpt |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range results {
		status := "success"
		excerptText := excerpt(r.ContentOrEmpty(), ExcerptLength)
		if !r.Success {
			status = "failed"
			excerptText = excerpt(r.ErrorMessage, ExcerptLength)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.AgentConfig.EffectiveDisplayName(), status, excerptText)
	}

	for _, r := range results {
		b.WriteString("\n")
		fmt.Fprintf(&b, "### %s\n\n", r.AgentConfig.EffectiveDisplayName())
		if r.Success {
			b.WriteString(excerpt(r.ContentOrEmpty(), ExcerptLength))
		} else {
			fmt.Fprintf(&b, "Failed: %s", r.ErrorMessage)
		}
		b.WriteString("\n")
	}

	return b.String()
}
