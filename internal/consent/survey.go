package consent

import "strings"

// SurveyCandidates enumerates the interactive controls of one document
// context, filters the non-visible and non-textual ones, and scores the
// rest against set. Individual elements going stale mid-enumeration are
// skipped, never fatal; an unreachable context yields no candidates.
//
// The result covers this context only. The caller merges across contexts
// and owns ranking.
func SurveyCandidates(ctx DocumentContext, set *KeywordSet) []Candidate {
	elements, err := ctx.QueryAll(InteractiveControls)
	if err != nil {
		return nil
	}

	var candidates []Candidate
	for _, el := range elements {
		if !el.Visible(VisibilityTimeout) {
			continue
		}

		text, err := el.Text(TextTimeout)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		if !ValidButtonText(text) {
			continue
		}

		if score := Score(text, set); score > ScoreNone {
			candidates = append(candidates, Candidate{Score: score, Handle: el, Text: text})
		}
	}
	return candidates
}
