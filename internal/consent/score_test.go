package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTiers(t *testing.T) {
	set := mustKeywordSet(t, "accept", "agree", "accept all cookies")

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"exact short keyword", "Accept", ScoreExact},
		{"exact short case folded", "ACCEPT", ScoreExact},
		{"exact long keyword", "Accept All Cookies", ScoreExactLong},
		{"partial in short text", "Accept now", ScorePartialShort},
		{"partial in long text", "I agree to the processing of my data", ScorePartialLong},
		{"no keyword", "Learn more", ScoreNone},
		{"substring is not a word match", "acceptance", ScoreNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text, set))
		})
	}
}

func TestScoreRejectAllPurposesOutranksEverything(t *testing.T) {
	set := mustKeywordSet(t, "reject")

	assert.Equal(t, ScoreRejectAllPurposes, Score("Reject All Purposes", set))
	assert.Equal(t, ScoreRejectAllPurposes, Score("reject all purpose", set))

	// It wins even under a vocabulary that would not otherwise match.
	unrelated := mustKeywordSet(t, "accept")
	assert.Equal(t, ScoreRejectAllPurposes, Score("Reject all purposes", unrelated))
}

func TestScoreTierOrdering(t *testing.T) {
	set := mustKeywordSet(t, "reject", "reject all optional cookies")

	exact := Score("Reject", set)
	exactLong := Score("Reject all optional cookies", set)
	partialShort := Score("Reject these", set)
	partialLong := Score("You can reject the optional categories", set)

	assert.Greater(t, Score("Reject all purposes", set), exact)
	assert.Greater(t, exact, exactLong)
	assert.Greater(t, exactLong, partialShort)
	assert.Greater(t, partialShort, partialLong)
	assert.Greater(t, partialLong, ScoreNone)
}

func TestValidButtonText(t *testing.T) {
	assert.True(t, ValidButtonText("OK"))
	assert.True(t, ValidButtonText("Accept all"))
	assert.True(t, ValidButtonText("  ok  "))

	assert.False(t, ValidButtonText(""))
	assert.False(t, ValidButtonText("x"))
	assert.False(t, ValidButtonText("  x  "))
	assert.False(t, ValidButtonText("1+"))
	assert.False(t, ValidButtonText("> 1"))
}
