package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerPresent(t *testing.T) {
	t.Run("vendor container in main document", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:      "main",
				selectors: map[string]*fakeElement{"#onetrust-banner-sdk": {visible: true}},
			},
		}
		assert.True(t, NewClassifier(nil).BannerPresent(page))
	})

	t.Run("generic container in frame", func(t *testing.T) {
		page := &fakePage{
			url:         "https://example.com",
			fakeContext: fakeContext{name: "main"},
			frames: []*fakeContext{{
				name:      "frame[0]",
				selectors: map[string]*fakeElement{`[id*="cookie" i]`: {visible: true}},
			}},
		}
		assert.True(t, NewClassifier(nil).BannerPresent(page))
	})

	t.Run("hidden container does not count", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:      "main",
				selectors: map[string]*fakeElement{"#onetrust-banner-sdk": {visible: false}},
			},
		}
		assert.False(t, NewClassifier(nil).BannerPresent(page))
	})

	t.Run("no container anywhere", func(t *testing.T) {
		page := &fakePage{url: "https://example.com", fakeContext: fakeContext{name: "main"}}
		assert.False(t, NewClassifier(nil).BannerPresent(page))
	})
}

func TestControlAvailable(t *testing.T) {
	accept := mustKeywordSet(t, "accept")
	reject := mustKeywordSet(t, "reject")

	page := &fakePage{
		url:         "https://example.com",
		fakeContext: fakeContext{name: "main"},
		frames: []*fakeContext{{
			name:     "frame[0]",
			controls: []*fakeElement{{text: "Accept all", visible: true}},
		}},
	}

	c := NewClassifier(nil)
	assert.True(t, c.ControlAvailable(page, accept))
	assert.False(t, c.ControlAvailable(page, reject))
}

func TestSubscribeAvailableRequiresConsentContainer(t *testing.T) {
	c := NewClassifier(nil)

	t.Run("subscribe control inside container", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:      "main",
				selectors: map[string]*fakeElement{"#didomi-notice": {visible: true}},
				within: map[string][]*fakeElement{
					"#didomi-notice|button": {{text: "Subscribe now", visible: true}},
				},
			},
		}
		assert.True(t, c.SubscribeAvailable(page))
	})

	t.Run("link role counts too", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:      "main",
				selectors: map[string]*fakeElement{"#didomi-notice": {visible: true}},
				within: map[string][]*fakeElement{
					"#didomi-notice|link": {{text: "Abonnieren", visible: true}},
				},
			},
		}
		assert.True(t, c.SubscribeAvailable(page))
	})

	t.Run("subscribe control outside any container", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:     "main",
				roleHits: map[string][]*fakeElement{"button": {{text: "Subscribe now", visible: true}}},
			},
		}
		assert.False(t, c.SubscribeAvailable(page))
	})

	t.Run("container without subscribe control", func(t *testing.T) {
		page := &fakePage{
			url: "https://example.com",
			fakeContext: fakeContext{
				name:      "main",
				selectors: map[string]*fakeElement{"#didomi-notice": {visible: true}},
				within: map[string][]*fakeElement{
					"#didomi-notice|button": {{text: "Accept all", visible: true}},
				},
			},
		}
		assert.False(t, c.SubscribeAvailable(page))
	})
}
