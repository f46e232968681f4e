package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Search.Engine = "google"
	cfg.Search.Limit = 7
	cfg.Fetcher.Proxy = "http://proxy.example:8080"

	path := filepath.Join(t.TempDir(), "tarzi.toml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "google", loaded.Search.Engine)
	assert.Equal(t, 7, loaded.Search.Limit)
	assert.Equal(t, "http://proxy.example:8080", loaded.Fetcher.Proxy)
}

func TestLoadOrCreateWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tarzi.toml")
	os.MkdirAll(filepath.Dir(path), 0o755)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Search.Engine, cfg.Search.Engine)
	assert.FileExists(t, path)
}

func TestApplyEnvOverridesHTTPSWinsOverHTTP(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "https://secure.example")
	t.Setenv("HTTP_PROXY", "http://plain.example")

	cfg := Default()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, "https://secure.example", cfg.Fetcher.Proxy)
}

func TestApplyEnvOverridesFallsBackToHTTPProxy(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("HTTP_PROXY", "http://plain.example")

	cfg := Default()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, "http://plain.example", cfg.Fetcher.Proxy)
}

func TestApplyEnvOverridesWebDriverURL(t *testing.T) {
	t.Setenv("TARZI_WEBDRIVER_URL", "http://127.0.0.1:9999")

	cfg := Default()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Fetcher.WebDriverURL)
}

func TestExternalBrowserEndpointDefault(t *testing.T) {
	t.Setenv("TARZI_EXTERNAL_BROWSER_ENDPOINT", "")
	assert.Equal(t, "ws://localhost:9222", ExternalBrowserEndpoint())
}
