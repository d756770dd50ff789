package consent

import (
	"errors"
	"regexp"
	"strings"

	"consent-crawler/internal/models"
)

// KeywordSet compiles a language-localized consent vocabulary into an
// exact-match set and a single whole-word, case-insensitive pattern.
// Immutable once built; one set is built per mode per crawl.
type KeywordSet struct {
	exact   map[string]struct{}
	pattern *regexp.Regexp
}

// NewKeywordSet builds a KeywordSet from an ordered keyword list. Blank
// entries are dropped; an effectively empty vocabulary is a fatal
// ConfigurationError.
func NewKeywordSet(keywords []string) (*KeywordSet, error) {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, &models.ConfigurationError{
			Field: "keywords",
			Err:   errors.New("empty keyword list"),
		}
	}

	exact := make(map[string]struct{}, len(cleaned))
	escaped := make([]string, len(cleaned))
	for i, k := range cleaned {
		exact[strings.ToLower(k)] = struct{}{}
		escaped[i] = regexp.QuoteMeta(k)
	}

	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	if err != nil {
		return nil, &models.ConfigurationError{Field: "keywords", Err: err}
	}

	return &KeywordSet{exact: exact, pattern: pattern}, nil
}

// ContainsExact reports whether the case-folded text equals a keyword.
func (s *KeywordSet) ContainsExact(text string) bool {
	_, ok := s.exact[strings.ToLower(text)]
	return ok
}

// MatchesPartial reports whether any keyword occurs in text as a whole word.
func (s *KeywordSet) MatchesPartial(text string) bool {
	return s.pattern.MatchString(text)
}

// Pattern exposes the compiled whole-word pattern for accessible-name
// lookups.
func (s *KeywordSet) Pattern() *regexp.Regexp {
	return s.pattern
}
