package merge

import (
	"regexp"
	"strings"
)

// headingPattern matches a level-3 finding heading: "### [N]. Title" or
// "### N. Title".
var headingPattern = regexp.MustCompile(`(?m)^###\s*\[?(\d+)\]?\.\s*(.+)$`)

var (
	priorityCellPattern = regexp.MustCompile(`(?i)\|\s*\*\*Priority\*\*\s*\|\s*(Critical|High|Medium|Low)\s*\|`)
	summaryCellPattern  = regexp.MustCompile(`\|\s*\*\*指摘の概要\*\*\s*\|\s*(.+?)\s*\|`)
	locationCellPattern = regexp.MustCompile(`\|\s*\*\*該当箇所\*\*\s*\|\s*(.+?)\s*\|`)
)

// parsedBlock is one raw level-3 finding section extracted from a pass body.
type parsedBlock struct {
	title string
	body  string
}

// parseFindingBlocks scans body for finding headings and splits it into
// blocks, each running to the next heading or end of body.
func parseFindingBlocks(body string) []parsedBlock {
	matches := headingPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]parsedBlock, 0, len(matches))
	for i, m := range matches {
		titleStart, titleEnd := m[4], m[5]
		title := strings.TrimSpace(body[titleStart:titleEnd])

		contentStart := m[1]
		contentEnd := len(body)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		blockBody := strings.TrimSpace(body[contentStart:contentEnd])

		blocks = append(blocks, parsedBlock{title: title, body: blockBody})
	}
	return blocks
}

// extractField runs re against body and returns the first capture group, or
// "" if no match.
func extractField(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// AggregatedFinding is the immutable record produced by the merger.
type AggregatedFinding struct {
	Title       string
	Body        string
	PassNumbers []int // ordered by first-seen

	NormalizedTitle    string
	NormalizedPriority string
	NormalizedSummary  string
	NormalizedLocation string

	TitleBigrams    map[string]struct{}
	SummaryBigrams  map[string]struct{}
	LocationBigrams map[string]struct{}

	// isFallback marks a finding assembled from unparseable content, keyed
	// by "fallback|"+normalized(content) rather than by title.
	isFallback bool
	fallbackKey string
}

// newAggregatedFinding builds an AggregatedFinding from one parsed block,
// first-seen in pass.
func newAggregatedFinding(block parsedBlock, pass int) *AggregatedFinding {
	normTitle := NormalizeText(block.title)
	normPriority := strings.ToLower(extractField(priorityCellPattern, block.body))
	normSummary := NormalizeText(extractField(summaryCellPattern, block.body))
	normLocation := NormalizeText(extractField(locationCellPattern, block.body))

	return &AggregatedFinding{
		Title:              block.title,
		Body:               block.body,
		PassNumbers:        []int{pass},
		NormalizedTitle:    normTitle,
		NormalizedPriority: normPriority,
		NormalizedSummary:  normSummary,
		NormalizedLocation: normLocation,
		TitleBigrams:       Bigrams(normTitle),
		SummaryBigrams:     Bigrams(normSummary),
		LocationBigrams:    Bigrams(normLocation),
	}
}

// newFallbackFinding builds a fallback AggregatedFinding for an unparseable
// block.
func newFallbackFinding(content string, pass int) *AggregatedFinding {
	normalized := NormalizeText(content)
	return &AggregatedFinding{
		Title:       "Unparsed findings",
		Body:        strings.TrimSpace(content),
		PassNumbers: []int{pass},
		isFallback:  true,
		fallbackKey: "fallback|" + normalized,
	}
}

// addPass unions pass into f.PassNumbers if not already present, preserving
// first-seen order.
func (f *AggregatedFinding) addPass(pass int) {
	for _, p := range f.PassNumbers {
		if p == pass {
			return
		}
	}
	f.PassNumbers = append(f.PassNumbers, pass)
}
