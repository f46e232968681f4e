package provider

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/tarzi/search"
)

func TestBuildRequestBraveSearchUsesSubscriptionHeader(t *testing.T) {
	req, err := BuildRequest(search.BraveSearch, "https://api.search.brave.com/res/v1/web/search", "golang", "secret-key")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "secret-key", req.Header.Get("X-Subscription-Token"))
	assert.Contains(t, req.URL.String(), "q=golang")
}

func TestBuildRequestGoogleSerperPostsJSONBody(t *testing.T) {
	req, err := BuildRequest(search.GoogleSerper, "https://google.serper.dev/search", "golang", "secret-key")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "secret-key", req.Header.Get("X-API-KEY"))
	body, _ := io.ReadAll(req.Body)
	assert.Contains(t, string(body), `"q":"golang"`)
}

func TestBuildRequestExaUsesLowercaseAPIKeyHeader(t *testing.T) {
	req, err := BuildRequest(search.Exa, "https://api.exa.ai/search", "golang", "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", req.Header.Get("x-api-key"))
}

func TestBuildRequestTravilyPutsKeyInBody(t *testing.T) {
	req, err := BuildRequest(search.Travily, "https://api.tavily.com/search", "golang", "secret-key")
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
	body, _ := io.ReadAll(req.Body)
	assert.Contains(t, string(body), `"api_key":"secret-key"`)
}

func TestBuildRequestBaiduUsesBearerAuth(t *testing.T) {
	req, err := BuildRequest(search.Baidu, "https://api.baidu.com/search", "golang", "secret-key")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", req.Header.Get("Authorization"))
}

func TestBuildRequestDuckDuckGoExpandsQueryPlaceholder(t *testing.T) {
	req, err := BuildRequest(search.DuckDuckGo, "https://api.duckduckgo.com/?q={query}&format=json", "golang rocks", "")
	require.NoError(t, err)
	assert.Contains(t, req.URL.String(), "q=golang+rocks")
}

func TestBuildRequestUnsupportedEngineErrors(t *testing.T) {
	_, err := BuildRequest(search.SogouWeixin, "", "golang", "")
	assert.Error(t, err)
}
