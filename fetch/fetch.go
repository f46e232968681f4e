// Package fetch implements the Fetcher: turns (url, Mode, Format) into a
// converted string, dispatching across plain HTTP, headless/headed browser
// sessions, and externally managed browser endpoints.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/use-agent/tarzi/browser"
	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/driver"
	"github.com/use-agent/tarzi/tarzierr"
)

// Mode selects how the Fetcher resolves a URL to a raw document.
type Mode int

const (
	PlainRequest Mode = iota
	BrowserHead
	BrowserHeadless
	BrowserHeadExternal
)

// ModeFromString parses the config/CLI vocabulary for Mode.
func ModeFromString(s string) Mode {
	switch strings.ToLower(s) {
	case "browser_head":
		return BrowserHead
	case "browser_headless":
		return BrowserHeadless
	case "browser_head_external":
		return BrowserHeadExternal
	default:
		return PlainRequest
	}
}

const defaultSessionID = "default"

// navigateDeadline bounds every browser-mode WebDriver operation (spec §5).
const navigateDeadline = 30 * time.Second

// Config configures the Fetcher's HTTP client and Browser Pool.
type Config struct {
	UserAgent            string
	Timeout              time.Duration
	Proxy                string
	PreferredDriver      driver.Kind
	WebDriverURL         string
	DriverStartTimeout   time.Duration
	ExternalBrowserWSURL string
}

// Fetcher is the unified front for every fetch mode.
type Fetcher struct {
	cfg       Config
	http      *http.Client
	converter *convert.Converter

	pool          *browser.Pool
	external      *browser.Pool
	externalReady bool
}

// New constructs a Fetcher. The Browser Pool is resolved lazily, on first
// browser-mode fetch, so a PlainRequest-only caller never needs a driver.
func New(cfg Config) *Fetcher {
	return &Fetcher{
		cfg:       cfg,
		http:      newHTTPClient(cfg.Proxy),
		converter: convert.New(),
	}
}

// Fetch resolves url under mode, then converts the raw document to format.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, mode Mode, format convert.Format) (string, error) {
	body, err := f.FetchRaw(ctx, rawURL, mode)
	if err != nil {
		return "", err
	}
	out, err := f.converter.Convert(body, rawURL, format)
	if err != nil {
		return "", err
	}
	return out, nil
}

// FetchRaw resolves url under mode and returns the raw document, skipping
// conversion.
func (f *Fetcher) FetchRaw(ctx context.Context, rawURL string, mode Mode) (string, error) {
	if _, err := nurl.ParseRequestURI(rawURL); err != nil {
		return "", tarzierr.Wrap(tarzierr.UrlError, fmt.Sprintf("invalid url %q", rawURL), err)
	}

	switch mode {
	case PlainRequest:
		return f.fetchPlain(ctx, f.http, rawURL)
	case BrowserHead:
		return f.fetchBrowser(ctx, rawURL, false)
	case BrowserHeadless:
		return f.fetchBrowser(ctx, rawURL, true)
	case BrowserHeadExternal:
		return f.fetchExternal(ctx, rawURL)
	default:
		return "", tarzierr.New(tarzierr.ConfigError, fmt.Sprintf("unknown fetch mode %d", mode))
	}
}

// FetchWithProxy is like Fetch but uses a one-shot client for PlainRequest
// built from proxy; browser modes fall back to PlainRequest with a logged
// warning (spec §4.C, §9 — documented, not extended here).
func (f *Fetcher) FetchWithProxy(ctx context.Context, rawURL, proxy string, mode Mode, format convert.Format) (string, error) {
	if mode != PlainRequest {
		slog.Warn("fetch_with_proxy: browser modes are not proxy-aware, falling back to plain_request", "mode", mode)
		mode = PlainRequest
	}
	client, err := clientWithProxy(proxy)
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.ConfigError, "building proxied http client", err)
	}
	body, err := f.fetchPlain(ctx, client, rawURL)
	if err != nil {
		return "", err
	}
	return f.converter.Convert(body, rawURL, format)
}

// FetchWithSession fetches url using a specific named Browser Pool session.
func (f *Fetcher) FetchWithSession(ctx context.Context, rawURL, instanceID string, format convert.Format) (string, error) {
	pool, err := f.ensurePool()
	if err != nil {
		return "", err
	}
	if _, ok := pool.Get(instanceID); !ok {
		if _, err := pool.CreateSession(ctx, instanceID, "", true); err != nil {
			return "", err
		}
	}
	body, err := f.navigateAndRead(ctx, pool, instanceID, rawURL)
	if err != nil {
		return "", err
	}
	return f.converter.Convert(body, rawURL, format)
}

// CreateSession, RemoveSession, ListSessions are thin delegations to the
// Browser Pool, exposed for callers that want explicit session identity
// (e.g. per-worker isolation).
func (f *Fetcher) CreateSession(ctx context.Context, instanceID, profileDir string, headless bool) (string, error) {
	pool, err := f.ensurePool()
	if err != nil {
		return "", err
	}
	return pool.CreateSession(ctx, instanceID, profileDir, headless)
}

func (f *Fetcher) RemoveSession(ctx context.Context, instanceID string) error {
	pool, err := f.ensurePool()
	if err != nil {
		return err
	}
	return pool.Remove(ctx, instanceID)
}

func (f *Fetcher) ListSessions() ([]string, error) {
	pool, err := f.ensurePool()
	if err != nil {
		return nil, err
	}
	return pool.IDs(), nil
}

// Shutdown tears down the Browser Pool(s) and any self-managed driver.
func (f *Fetcher) Shutdown() {
	if f.pool != nil {
		f.pool.Shutdown()
	}
	if f.external != nil {
		f.external.Shutdown()
	}
}

func (f *Fetcher) fetchPlain(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.UrlError, "building request", err)
	}
	ua := f.cfg.UserAgent
	if ua == "" {
		ua = "tarzi/1.0"
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.NetworkError, fmt.Sprintf("fetching %s", rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", tarzierr.HttpStatusErr(resp.StatusCode, rawURL)
	}

	const maxBody = 10 << 20
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.NetworkError, "reading response body", err)
	}
	return string(data), nil
}

func (f *Fetcher) fetchBrowser(ctx context.Context, rawURL string, headless bool) (string, error) {
	pool, err := f.ensurePool()
	if err != nil {
		return "", err
	}
	if _, ok := pool.Get(defaultSessionID); !ok {
		if _, err := pool.CreateSession(ctx, defaultSessionID, "", headless); err != nil {
			return "", err
		}
	}
	return f.navigateAndRead(ctx, pool, defaultSessionID, rawURL)
}

func (f *Fetcher) fetchExternal(ctx context.Context, rawURL string) (string, error) {
	pool, err := f.ensureExternalPool()
	if err != nil {
		return "", err
	}
	if _, ok := pool.Get(defaultSessionID); !ok {
		if _, err := pool.CreateSession(ctx, defaultSessionID, "", false); err != nil {
			return "", err
		}
	}
	return f.navigateAndRead(ctx, pool, defaultSessionID, rawURL)
}

func (f *Fetcher) navigateAndRead(ctx context.Context, pool *browser.Pool, instanceID, rawURL string) (string, error) {
	session, ok := pool.Get(instanceID)
	if !ok {
		return "", tarzierr.New(tarzierr.BrowserError, fmt.Sprintf("no such session %q", instanceID))
	}
	dctx, cancel := context.WithTimeout(ctx, navigateDeadline)
	defer cancel()

	client := pool.Client()
	if err := client.NewWindow(dctx, session.SessionID); err != nil {
		return "", deadlineAware(err, "new_window")
	}
	if err := client.Navigate(dctx, session.SessionID, rawURL); err != nil {
		return "", deadlineAware(err, "navigate")
	}
	time.Sleep(2 * time.Second)
	source, err := client.PageSource(dctx, session.SessionID)
	if err != nil {
		return "", deadlineAware(err, "source")
	}
	return source, nil
}

func deadlineAware(err error, stage string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return tarzierr.TimeoutErr(stage, err)
	}
	return tarzierr.Wrap(tarzierr.BrowserError, stage, err)
}

func (f *Fetcher) ensurePool() (*browser.Pool, error) {
	if f.pool != nil {
		return f.pool, nil
	}
	pool, err := browser.New(browser.Config{
		PreferredKind: f.cfg.PreferredDriver,
		WebDriverURL:  f.cfg.WebDriverURL,
		StartTimeout:  f.cfg.DriverStartTimeout,
		Proxy:         f.cfg.Proxy,
	})
	if err != nil {
		return nil, err
	}
	f.pool = pool
	return pool, nil
}

func (f *Fetcher) ensureExternalPool() (*browser.Pool, error) {
	if f.externalReady {
		return f.external, nil
	}
	endpoint := f.cfg.ExternalBrowserWSURL
	if endpoint == "" {
		endpoint = "ws://localhost:9222"
	}
	httpEndpoint, err := wsToHTTP(endpoint)
	if err != nil {
		return nil, tarzierr.Wrap(tarzierr.ConfigError, "resolving external browser endpoint", err)
	}
	pool, err := browser.New(browser.Config{WebDriverURL: httpEndpoint, Proxy: f.cfg.Proxy})
	if err != nil {
		return nil, err
	}
	f.external = pool
	f.externalReady = true
	return pool, nil
}

// wsToHTTP converts ws://host:port/ws → http://host:port and
// wss://host:port/ws → https://host:port, per spec §4.C.
func wsToHTTP(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://") {
		return "", fmt.Errorf("external browser endpoint %q must start with ws:// or wss://", endpoint)
	}
	out := endpoint
	out = strings.Replace(out, "wss://", "https://", 1)
	out = strings.Replace(out, "ws://", "http://", 1)
	out = strings.TrimSuffix(out, "/ws")
	return out, nil
}
