// Package config loads and saves the TOML configuration consumed by the
// driver, browser, fetch, and search components.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the nested record persisted as TOML.
type Config struct {
	General GeneralConfig `toml:"general"`
	Fetcher FetcherConfig `toml:"fetcher"`
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
}

// GeneralConfig holds process-wide knobs.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	Timeout  int    `toml:"timeout"`
}

// FetcherConfig controls the Fetcher and, transitively, the Driver Manager
// and Browser Pool it delegates browser-mode fetches to.
type FetcherConfig struct {
	UserAgent    string `toml:"user_agent"`
	Timeout      int    `toml:"timeout"`
	Mode         string `toml:"mode"`
	Format       string `toml:"format"`
	Proxy        string `toml:"proxy,omitempty"`
	WebDriver    string `toml:"web_driver"`
	WebDriverURL string `toml:"web_driver_url,omitempty"`
}

// SearchConfig controls the Search Engine Dispatcher.
type SearchConfig struct {
	Mode               string `toml:"mode"`
	Engine             string `toml:"engine"`
	QueryPattern       string `toml:"query_pattern,omitempty"`
	Limit              int    `toml:"limit"`
	AutoSwitch         string `toml:"autoswitch"`
	GoogleSerperAPIKey string `toml:"google_serper_api_key,omitempty"`
	BraveAPIKey        string `toml:"brave_api_key,omitempty"`
	BaiduAPIKey        string `toml:"baidu_api_key,omitempty"`
	ExaAPIKey          string `toml:"exa_api_key,omitempty"`
	TravilyAPIKey      string `toml:"travily_api_key,omitempty"`
}

// ServerConfig controls the optional HTTP front-end (cmd/tarzi-server). It
// has no counterpart in the CLI and is only consulted there.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	APIKeys        []string `toml:"api_keys,omitempty"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
}

// Default returns the built-in defaults named in spec §6.
func Default() *Config {
	return &Config{
		General: GeneralConfig{LogLevel: "info", Timeout: 30},
		Fetcher: FetcherConfig{
			UserAgent: "tarzi/1.0",
			Timeout:   30,
			Mode:      "browser_headless",
			Format:    "html",
			WebDriver: "geckodriver",
		},
		Search: SearchConfig{
			Mode:       "webquery",
			Engine:     "duckduckgo",
			Limit:      3,
			AutoSwitch: "smart",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimitRPS:   2,
			RateLimitBurst: 5,
		},
	}
}

// DefaultPath returns the user-scoped config path, ~/.tarzi.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".tarzi.toml"), nil
}

// DevPath returns the cwd-scoped config path used during local development.
func DevPath() string {
	return "tarzi.toml"
}

// Load reads and parses the TOML file at path, then layers environment
// overrides on top (spec §6: HTTPS_PROXY/HTTP_PROXY, TARZI_WEBDRIVER_URL).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}

// LoadOrCreate loads path if present, otherwise writes and returns the
// built-in defaults.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	cfg := Default()
	if err := Save(cfg, path); err != nil {
		return nil, err
	}
	ApplyEnvOverrides(cfg)
	return cfg, nil
}

// Save serializes cfg as TOML to path.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides mutates cfg in place with the environment-variable
// overrides named in spec §6, highest priority. HTTPS_PROXY wins over
// HTTP_PROXY when both are set, matching the teacher's env-precedence
// convention of checking the more specific variable first.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Fetcher.Proxy = v
	} else if v := os.Getenv("HTTP_PROXY"); v != "" {
		cfg.Fetcher.Proxy = v
	}
	if v := os.Getenv("TARZI_WEBDRIVER_URL"); v != "" {
		cfg.Fetcher.WebDriverURL = v
	}
}

// ExternalBrowserEndpoint resolves the BrowserHeadExternal WebSocket
// endpoint: TARZI_EXTERNAL_BROWSER_ENDPOINT, defaulting to ws://localhost:9222.
func ExternalBrowserEndpoint() string {
	if v := os.Getenv("TARZI_EXTERNAL_BROWSER_ENDPOINT"); v != "" {
		return v
	}
	return "ws://localhost:9222"
}
