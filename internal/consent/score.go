package consent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Confidence tiers for button candidates. Exact, short matches are
// overwhelmingly button labels; long partial matches are more likely
// incidental prose.
const (
	ScoreNone              = 0.0
	ScorePartialLong       = 1.0
	ScorePartialShort      = 2.0
	ScoreExactLong         = 2.5
	ScoreExact             = 3.0
	ScoreRejectAllPurposes = 3.5
)

// HighConfidence is the minimum score for acting on an accessible-name
// lookup during the multi-step flow.
const HighConfidence = ScoreExactLong

// Candidate pairs a borrowed element handle with its scored text. Created
// per search pass and discarded once the pass resolves.
type Candidate struct {
	Score  float64
	Handle Element
	Text   string
}

// A recurring non-standard CMP wording; the most specific reject action we
// know of, so it outranks every keyword tier.
var rejectAllPurposesPattern = regexp.MustCompile(`reject all purposes?\b`)

// ValidButtonText reports whether text is plausible for a control label.
// Texts shorter than two characters or with fewer than two letters are
// excluded before scoring.
func ValidButtonText(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < 2 {
		return false
	}
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if letters >= 2 {
				return true
			}
		}
	}
	return false
}

// Score rates how likely text labels the action described by set. Rules are
// evaluated in order, first match wins. Scoring is a pure function; a score
// belongs to exactly one keyword set and is never mixed across modes.
func Score(text string, set *KeywordSet) float64 {
	normalized := strings.ToLower(strings.TrimSpace(text))

	if rejectAllPurposesPattern.MatchString(normalized) {
		return ScoreRejectAllPurposes
	}

	if set.ContainsExact(normalized) {
		if utf8.RuneCountInString(normalized) < 10 {
			return ScoreExact
		}
		return ScoreExactLong
	}

	if set.MatchesPartial(normalized) {
		if utf8.RuneCountInString(normalized) < 15 {
			return ScorePartialShort
		}
		return ScorePartialLong
	}

	return ScoreNone
}
