package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedTime() time.Time {
	return time.Date(2026, 3, 5, 9, 30, 15, 0, time.UTC)
}

func TestSanitizeAgentName_ReplacesDisallowedCharacters(t *testing.T) {
	assert.Equal(t, "sec_reviewer", SanitizeAgentName("sec reviewer"))
	assert.Equal(t, "a_b_c", SanitizeAgentName("a/b\\c"))
	assert.Equal(t, "clean-name.v1", SanitizeAgentName("clean-name.v1"))
}

func TestSanitizeAgentName_Idempotent(t *testing.T) {
	once := SanitizeAgentName("weird name!@#")
	twice := SanitizeAgentName(once)
	assert.Equal(t, once, twice)
}

func TestExecutiveSummaryFilename_MatchesPattern(t *testing.T) {
	// Only the shape of the name is checked: the literal prefix/suffix and a
	// six-field numeric timestamp.
	assert.Regexp(t, `^executive_summary_\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.md$`, ExecutiveSummaryFilename(fixedTime()))
}
