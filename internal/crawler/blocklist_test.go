package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoriesFirstList = `{
  "categories": {
    "Advertising": [
      {"AdCo": {"https://adco.example/": ["ads.adco-tracker.com", "adco-cdn.net"]}}
    ],
    "Analytics": ["metrics.example.io"],
    "Content": ["harmless-cdn.com"]
  }
}`

const entitiesFirstList = `{
  "AdCo": {"categories": ["Advertising"], "properties": ["adco-tracker.com"]},
  "NewsCo": {"categories": ["Content"], "properties": ["newsco.com"]}
}`

func TestLoadDisconnectBlocklistCategoriesFirst(t *testing.T) {
	path := writeFile(t, "services.json", categoriesFirstList)

	blocked, err := LoadDisconnectBlocklist(path)
	require.NoError(t, err)

	assert.True(t, blocked.MatchesHost("ads.adco-tracker.com"))
	assert.True(t, blocked.MatchesHost("adco-cdn.net"))
	assert.True(t, blocked.MatchesHost("metrics.example.io"))
	assert.False(t, blocked.MatchesHost("harmless-cdn.com"), "Content category is never blocked")
}

func TestLoadDisconnectBlocklistEntitiesFirst(t *testing.T) {
	path := writeFile(t, "services.json", entitiesFirstList)

	blocked, err := LoadDisconnectBlocklist(path)
	require.NoError(t, err)

	assert.True(t, blocked.MatchesHost("adco-tracker.com"))
	assert.False(t, blocked.MatchesHost("newsco.com"))
}

func TestBlockSetMatchesByRegistrableDomain(t *testing.T) {
	path := writeFile(t, "services.json", `{"categories": {"Advertising": ["tracker.co.uk"]}}`)

	blocked, err := LoadDisconnectBlocklist(path)
	require.NoError(t, err)

	assert.True(t, blocked.MatchesHost("tracker.co.uk"))
	assert.True(t, blocked.MatchesHost("cdn.eu.tracker.co.uk"), "subdomains share the registrable domain")
	assert.False(t, blocked.MatchesHost("other.co.uk"))
	assert.False(t, blocked.MatchesHost(""))
}

func TestBlockSetEmpty(t *testing.T) {
	assert.False(t, BlockSet{}.MatchesHost("anything.com"))
}
