package connectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	remarks := "Handyman special! Sold AS-IS, estate sale, tons of potential. Motivated seller."

	keywords := ExtractKeywords(remarks)

	assert.Contains(t, keywords, "handyman")
	assert.Contains(t, keywords, "as-is")
	assert.Contains(t, keywords, "estate sale")
	assert.Contains(t, keywords, "potential")
	assert.Contains(t, keywords, "motivated")
}

func TestExtractKeywords_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ExtractKeywords("FIXER upper"), ExtractKeywords("fixer upper"))
}

func TestExtractKeywords_NoMatches(t *testing.T) {
	assert.Empty(t, ExtractKeywords("Beautifully renovated turnkey home"))
	assert.Empty(t, ExtractKeywords(""))
}

func TestExtractKeywords_CanonicalOrder(t *testing.T) {
	// Order follows the keyword table, not the remark text
	a := ExtractKeywords("motivated seller of a fixer")
	b := ExtractKeywords("fixer owned by a motivated seller")
	assert.Equal(t, a, b)
}
