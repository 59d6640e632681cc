package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText_Idempotent(t *testing.T) {
	cases := []string{
		"SQL Injection in login!!",
		"  already   normalized  ",
		"",
		"Mixed-Case, Punctuation...",
	}
	for _, c := range cases {
		once := NormalizeText(c)
		twice := NormalizeText(once)
		assert.Equal(t, once, twice, "normalizeText should be idempotent for %q", c)
	}
}

func TestNormalizeText_LowercasesStripsPunctuationCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "sql injection in login", NormalizeText("SQL Injection in login!!"))
	assert.Equal(t, "a b", NormalizeText("a\n\n\tb"))
	assert.Equal(t, "", NormalizeText("   ...,,,  "))
}

func TestBigrams(t *testing.T) {
	bg := Bigrams("abc")
	assert.Len(t, bg, 2)
	_, ok := bg["ab"]
	assert.True(t, ok)
	_, ok = bg["bc"]
	assert.True(t, ok)

	assert.Empty(t, Bigrams("a"))
	assert.Empty(t, Bigrams(""))
}

func TestJaccardSimilarity(t *testing.T) {
	a := Bigrams("night")
	b := Bigrams("nacht")
	sim := JaccardSimilarity(a, b)
	assert.Greater(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)

	assert.Equal(t, 0.0, JaccardSimilarity(map[string]struct{}{}, b))
	assert.Equal(t, 1.0, JaccardSimilarity(a, a))
}

func TestKeywordsAndShareKeyword(t *testing.T) {
	k1 := Keywords("sql injection in login handler")
	k2 := Keywords("sqli in the login path")

	assert.Contains(t, k1, "login")
	assert.NotContains(t, k1, "in") // short word filtered

	assert.True(t, ShareKeyword(k1, k2))
	assert.False(t, ShareKeyword(Keywords("alpha beta"), Keywords("gamma delta")))
}
