package merge

import "github.com/agext/levenshtein"

// Thresholds freezes the near-duplicate test's constants. The values are
// chosen here and must stay stable within a release: reports merged under
// one set of thresholds should not shift under a patch upgrade.
type Thresholds struct {
	// BigramJaccard is the minimum Jaccard similarity over character
	// bigrams for two normalized texts to be considered "similar".
	BigramJaccard float64
	// LevenshteinSimilarity is the minimum normalized Levenshtein
	// similarity (1 - distance/maxLen) used as a secondary confirming
	// signal alongside the bigram test, reducing false negatives on short
	// strings where bigram Jaccard is noisy.
	LevenshteinSimilarity float64
}

// DefaultThresholds are the frozen values Merger uses.
var DefaultThresholds = Thresholds{
	BigramJaccard:         0.5,
	LevenshteinSimilarity: 0.6,
}

// similarText reports whether two normalized strings are "similar" per the
// combined bigram-Jaccard / Levenshtein signal. Jaccard is the primary
// measure; Levenshtein similarity confirms when Jaccard falls just
// short, which matters most for short titles and locations where a single
// character's bigram set is small enough to swing Jaccard sharply.
func similarText(normA, normB string, bigramsA, bigramsB map[string]struct{}, th Thresholds) bool {
	if normA == "" || normB == "" {
		return false
	}
	if JaccardSimilarity(bigramsA, bigramsB) >= th.BigramJaccard {
		return true
	}
	return levenshtein.Match(normA, normB, nil) >= th.LevenshteinSimilarity
}

// isNearDuplicate runs the multi-signal near-duplicate test for incoming
// finding i against existing aggregated finding e. Priority is a hard veto,
// location gates when both sides carry one, and title/summary similarity
// decide the rest.
func isNearDuplicate(i, e *AggregatedFinding, th Thresholds) bool {
	titlesSimilar := similarText(i.NormalizedTitle, e.NormalizedTitle, i.TitleBigrams, e.TitleBigrams, th)
	summariesSimilar := similarText(i.NormalizedSummary, e.NormalizedSummary, i.SummaryBigrams, e.SummaryBigrams, th)
	shareKeyword := ShareKeyword(Keywords(i.NormalizedTitle), Keywords(e.NormalizedTitle))

	if i.NormalizedPriority != "" && e.NormalizedPriority != "" && i.NormalizedPriority != e.NormalizedPriority {
		return false
	}

	if i.NormalizedLocation != "" && e.NormalizedLocation != "" {
		locationsSimilar := similarText(i.NormalizedLocation, e.NormalizedLocation, i.LocationBigrams, e.LocationBigrams, th)
		if !locationsSimilar {
			return false
		}
		return summariesSimilar || titlesSimilar || shareKeyword
	}

	return summariesSimilar && titlesSimilar
}
