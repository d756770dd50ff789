package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandAppliesTranslationsOnce(t *testing.T) {
	cfg := KeywordConfig{
		AcceptWords: []string{"accept", "accept all"},
		Words: map[string]map[string]string{
			"de": {"accept": "akzeptieren"},
			"fr": {"accept": "accepter"},
			"xx": {"accept": "akzeptieren"}, // duplicate translation
		},
	}

	words := cfg.Accept()

	assert.Equal(t, []string{"accept", "accept all"}, words[:2], "base words come first in order")
	assert.Contains(t, words, "akzeptieren")
	assert.Contains(t, words, "accepter")
	assert.Len(t, words, 4, "duplicates are folded")
}

func TestExpandSkipsEmptyEntries(t *testing.T) {
	cfg := KeywordConfig{
		RejectWords: []string{"reject", ""},
		Words:       map[string]map[string]string{"de": {"reject": ""}},
	}

	assert.Equal(t, []string{"reject"}, cfg.Reject())
}

func TestLoadKeywordConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadKeywordConfig("")
	require.NoError(t, err)

	assert.Contains(t, cfg.Accept(), "accept all")
	assert.Contains(t, cfg.Reject(), "reject all")
	assert.NotEmpty(t, cfg.Settings())
	assert.NotEmpty(t, cfg.Save())
	assert.NotEmpty(t, cfg.EssentialsOnly())
}

func TestLoadKeywordConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	content := `{
		"accept_words": ["accept"],
		"reject_words": ["reject"],
		"words": {"de": {"accept": "akzeptieren"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadKeywordConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"accept", "akzeptieren"}, cfg.Accept())
	assert.Equal(t, []string{"reject"}, cfg.Reject())
	assert.Empty(t, cfg.Settings())
}

func TestLoadKeywordConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := LoadKeywordConfig(path)
	assert.Error(t, err)
}
