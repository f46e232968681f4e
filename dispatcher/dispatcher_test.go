package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
	"github.com/use-agent/tarzi/tarzierr"
)

func TestAutoSwitchFromStringNoneIsExplicit(t *testing.T) {
	assert.Equal(t, None, AutoSwitchFromString("none"))
	assert.Equal(t, None, AutoSwitchFromString("NONE"))
}

func TestAutoSwitchFromStringDefaultsToSmart(t *testing.T) {
	assert.Equal(t, Smart, AutoSwitchFromString("smart"))
	assert.Equal(t, Smart, AutoSwitchFromString("garbage"))
	assert.Equal(t, Smart, AutoSwitchFromString(""))
}

func TestPatternForUsesOverrideOnlyForConfiguredEngine(t *testing.T) {
	d := &Dispatcher{cfg: Config{Engine: search.Bing, QueryPattern: "https://custom.example/?q={query}"}}

	assert.Equal(t, "https://custom.example/?q={query}", d.patternFor(search.Bing, search.WebQuery))
	assert.Equal(t, "https://custom.example/?q={query}", d.patternFor(search.Bing, search.ApiQuery))
	assert.Equal(t, search.QueryPattern(search.Google, search.WebQuery), d.patternFor(search.Google, search.WebQuery))
}

func TestApiKeyForReturnsEmptyWhenUnset(t *testing.T) {
	d := &Dispatcher{cfg: Config{}}
	assert.Equal(t, "", d.apiKeyFor(search.GoogleSerper))

	d = &Dispatcher{cfg: Config{APIKeys: map[search.EngineKind]string{search.GoogleSerper: "key"}}}
	assert.Equal(t, "key", d.apiKeyFor(search.GoogleSerper))
	assert.Equal(t, "", d.apiKeyFor(search.BraveSearch))
}

func TestSearchWithRejectsUnsupportedModePair(t *testing.T) {
	d := New(Config{Engine: search.Bing})
	_, err := d.searchWith(context.Background(), search.Bing, "golang", search.ApiQuery, 5)
	var target *tarzierr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.EngineNotSupported, target.Code)
}

func TestSearchAPIRequiresConfiguredKey(t *testing.T) {
	d := New(Config{Engine: search.GoogleSerper})
	_, err := d.Search(context.Background(), "golang", search.ApiQuery, 5)
	var target *tarzierr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.ConfigError, target.Code)
}

func TestSearchAPIParsesSuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic":[{"title":"Result One","link":"https://one.example","snippet":"s"}]}`))
	}))
	defer srv.Close()

	d := New(Config{Engine: search.GoogleSerper, QueryPattern: srv.URL, APIKeys: map[search.EngineKind]string{search.GoogleSerper: "k"}})
	results, err := d.Search(context.Background(), "golang", search.ApiQuery, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://one.example", results[0].URL)
	assert.Equal(t, 1, results[0].Rank)
}

func TestSearchAndFetchSkipsFailedFetchesButKeepsOrder(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>enough content here to clear the minimum body length threshold for extraction</p></body></html>"))
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic":[{"title":"Bad","link":"` + bad.URL + `","snippet":"s"},{"title":"Good","link":"` + ok.URL + `","snippet":"s"}]}`))
	}))
	defer srv.Close()

	d := New(Config{Engine: search.GoogleSerper, QueryPattern: srv.URL, APIKeys: map[search.EngineKind]string{search.GoogleSerper: "k"}})
	out, err := d.SearchAndFetch(context.Background(), "golang", search.ApiQuery, 5, fetch.PlainRequest, convert.Html)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, ok.URL, out[0].Result.URL)
}
