package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/tarzierr"
)

func TestModeFromString(t *testing.T) {
	assert.Equal(t, BrowserHead, ModeFromString("browser_head"))
	assert.Equal(t, BrowserHeadless, ModeFromString("BROWSER_HEADLESS"))
	assert.Equal(t, BrowserHeadExternal, ModeFromString("browser_head_external"))
	assert.Equal(t, PlainRequest, ModeFromString("plain_request"))
	assert.Equal(t, PlainRequest, ModeFromString("garbage"))
}

func TestFetchRawRejectsInvalidURL(t *testing.T) {
	f := New(Config{})
	_, err := f.FetchRaw(context.Background(), "not a url", PlainRequest)
	var target *tarzierr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.UrlError, target.Code)
}

func TestFetchPlainReturnsHttpStatusErrOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{})
	_, err := f.FetchRaw(context.Background(), srv.URL, PlainRequest)
	var target *tarzierr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.HttpStatus, target.Code)
}

func TestFetchConvertsPlainRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>hi there friend, long enough body text to pass the content length floor check easily now</p></body></html>"))
	}))
	defer srv.Close()

	f := New(Config{})
	out, err := f.Fetch(context.Background(), srv.URL, PlainRequest, convert.Html)
	require.NoError(t, err)
	assert.Contains(t, out, "hi there friend")
}

func TestFetchWithProxyFallsBackToPlainRequestForBrowserModes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain body"))
	}))
	defer srv.Close()

	f := New(Config{})
	out, err := f.FetchWithProxy(context.Background(), srv.URL, "", BrowserHeadless, convert.Html)
	require.NoError(t, err)
	assert.Contains(t, out, "plain body")
}

func TestFetchWithProxyRejectsInvalidProxyURL(t *testing.T) {
	f := New(Config{})
	_, err := f.FetchWithProxy(context.Background(), "https://example.com", "://bad-proxy", PlainRequest, convert.Html)
	var target *tarzierr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, tarzierr.ConfigError, target.Code)
}

func TestWsToHTTPConvertsSchemeAndTrimsSuffix(t *testing.T) {
	out, err := wsToHTTP("ws://localhost:9222/ws")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9222", out)

	out, err = wsToHTTP("wss://example.com:443/ws")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:443", out)
}

func TestWsToHTTPRejectsNonWebSocketScheme(t *testing.T) {
	_, err := wsToHTTP("http://localhost:9222")
	assert.Error(t, err)
}

func TestListSessionsErrorsWhenExternalWebDriverUnreachable(t *testing.T) {
	f := New(Config{WebDriverURL: "http://127.0.0.1:1"})
	_, err := f.ListSessions()
	assert.Error(t, err)
}
