package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"webquery", WebQuery},
		{"WEBQUERY", WebQuery},
		{"apiquery", ApiQuery},
		{"ApiQuery", ApiQuery},
		{"", WebQuery},
		{"nonsense", WebQuery},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ModeFromString(c.in), "input %q", c.in)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "webquery", WebQuery.String())
	assert.Equal(t, "apiquery", ApiQuery.String())
}

func TestEngineKindFromStringDefaultsToDuckDuckGo(t *testing.T) {
	assert.Equal(t, DuckDuckGo, EngineKindFromString("not-a-real-engine"))
	assert.Equal(t, DuckDuckGo, EngineKindFromString(""))
}

func TestEngineKindFromStringAliases(t *testing.T) {
	assert.Equal(t, BraveSearch, EngineKindFromString("bravesearch"))
	assert.Equal(t, Travily, EngineKindFromString("tavily"))
	assert.Equal(t, GoogleSerper, EngineKindFromString("googleserper"))
	assert.Equal(t, SogouWeixin, EngineKindFromString("sogouweixin"))
}

func TestQueryPatternSubstitutionPoint(t *testing.T) {
	for _, kind := range []EngineKind{Bing, DuckDuckGo, Google, BraveSearch, Baidu, Exa, SogouWeixin} {
		pattern := QueryPattern(kind, WebQuery)
		if !SupportsWebQuery(kind) {
			continue
		}
		assert.Contains(t, pattern, "{query}", "web pattern for %s must carry a substitution point", kind)
	}
}

func TestTravilyHasNoWebQuery(t *testing.T) {
	assert.False(t, SupportsWebQuery(Travily))
	assert.Equal(t, "", QueryPattern(Travily, WebQuery))
}

func TestBingHasNoAPIQuery(t *testing.T) {
	assert.False(t, SupportsApiQuery(Bing))
}

func TestRequiresAPIKey(t *testing.T) {
	assert.False(t, RequiresAPIKey(DuckDuckGo))
	assert.False(t, RequiresAPIKey(Bing))
	assert.False(t, RequiresAPIKey(SogouWeixin))
	assert.True(t, RequiresAPIKey(BraveSearch))
	assert.True(t, RequiresAPIKey(Exa))
	assert.True(t, RequiresAPIKey(Travily))
}

func TestAPIKeyFieldMatchesConfigVocabulary(t *testing.T) {
	assert.Equal(t, "brave_api_key", APIKeyField(BraveSearch))
	assert.Equal(t, "exa_api_key", APIKeyField(Exa))
	assert.Equal(t, "travily_api_key", APIKeyField(Travily))
	assert.Equal(t, "baidu_api_key", APIKeyField(Baidu))
	assert.Equal(t, "google_serper_api_key", APIKeyField(GoogleSerper))
	assert.Equal(t, "", APIKeyField(DuckDuckGo))
}
