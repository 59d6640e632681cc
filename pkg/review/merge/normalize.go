// Package merge collapses multiple passes for the same agent into one
// result via finding-block parsing and a multi-signal near-duplicate test.
package merge

import (
	"strings"
	"unicode"
)

// NormalizeText lowercases, strips punctuation, and collapses whitespace.
// Idempotent: NormalizeText(NormalizeText(x)) == NormalizeText(x).
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastWasSpace = false
		case unicode.IsSpace(r):
			if !lastWasSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastWasSpace = true
		default:
			// punctuation: stripped entirely, not replaced with a space
		}
	}
	return strings.TrimSpace(b.String())
}

// Bigrams returns the set of character bigrams of normalized text.
func Bigrams(normalized string) map[string]struct{} {
	runes := []rune(normalized)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// JaccardSimilarity computes |a∩b| / |a∪b| over two bigram sets. Two empty
// sets are defined as dissimilar (0), since there is no text to compare.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for bg := range a {
		if _, ok := b[bg]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Keywords returns the set of normalized words of length > 3 (short words
// like "the", "in" carry little signal for the keyword-overlap check).
func Keywords(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

// ShareKeyword reports whether a and b have any keyword in common.
func ShareKeyword(a, b map[string]struct{}) bool {
	for w := range a {
		if _, ok := b[w]; ok {
			return true
		}
	}
	return false
}
