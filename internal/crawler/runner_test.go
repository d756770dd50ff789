package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consent-crawler/internal/models"
)

func TestTargetURL(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{"bare domain", "example.com", "https://example.com"},
		{"subdomain", "news.example.org", "https://news.example.org"},
		{"full url is honored", "http://example.com/start", "http://example.com/start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetURL(tt.domain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetURLRejectsMalformedEntries(t *testing.T) {
	for _, domain := range []string{"", "exa mple.com", "://nohost", "https://"} {
		t.Run(domain, func(t *testing.T) {
			_, err := targetURL(domain)
			require.Error(t, err)

			var urlErr *models.InvalidURLError
			assert.ErrorAs(t, err, &urlErr)
		})
	}
}

func TestEngineMode(t *testing.T) {
	assert.Equal(t, models.ModeReject, engineMode(CrawlReject))
	assert.Equal(t, models.ModeAccept, engineMode(CrawlAccept))
	assert.Equal(t, models.ModeAccept, engineMode(CrawlBlock))
}
