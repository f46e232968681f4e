// Package dispatcher implements the Search Engine Dispatcher: the top-level
// search and search_and_fetch entry points that pick a provider, expand its
// query pattern, invoke the right fetch path, and hand raw output to the
// parser factory.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	nurl "net/url"
	"strings"

	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
	"github.com/use-agent/tarzi/search/parser"
	"github.com/use-agent/tarzi/search/provider"
	"github.com/use-agent/tarzi/tarzierr"
)

// AutoSwitch is the dispatcher's policy for handling a failed primary query.
type AutoSwitch int

const (
	None AutoSwitch = iota
	Smart
)

// AutoSwitchFromString defaults unrecognized strings to Smart, matching the
// original's From<&str> behavior.
func AutoSwitchFromString(s string) AutoSwitch {
	if strings.EqualFold(s, "none") {
		return None
	}
	return Smart
}

// smartPreferenceOrder is the hard-coded sequential fallback chain used by
// AutoSwitch=Smart (spec §4.E). The primary engine is skipped when it
// appears in the chain.
var smartPreferenceOrder = []search.EngineKind{
	search.GoogleSerper, search.BraveSearch, search.Exa, search.Travily, search.DuckDuckGo,
}

// Config is the dispatcher's state: a configured engine, a query-pattern
// override, per-engine API keys, and the autoswitch policy.
type Config struct {
	Engine       search.EngineKind
	QueryPattern string // overrides the engine's built-in pattern when non-empty
	UserAgent    string
	AutoSwitch   AutoSwitch
	APIKeys      map[search.EngineKind]string
	Fetch        fetch.Config
}

// Dispatcher owns engine selection, query expansion, autoswitch, and the
// compose-search-then-fetch pipeline.
type Dispatcher struct {
	cfg     Config
	parsers *parser.Factory
	fetcher *fetch.Fetcher
	http    *http.Client
}

// New builds a Dispatcher. The embedded Fetcher is constructed eagerly but
// its Browser Pool is resolved lazily on first browser-mode use.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		parsers: parser.NewFactory(),
		fetcher: fetch.New(cfg.Fetch),
		http:    &http.Client{},
	}
}

// Search resolves the (engine, mode) pair to a parser, executes the query
// for the configured engine, and — if AutoSwitch=Smart and the primary
// fails — retries the sequential preference chain (spec §4.E).
func (d *Dispatcher) Search(ctx context.Context, query string, mode search.Mode, limit int) ([]search.Result, error) {
	results, err := d.searchWith(ctx, d.cfg.Engine, query, mode, limit)
	if err == nil {
		return results, nil
	}
	if d.cfg.AutoSwitch != Smart {
		return nil, err
	}

	var failures []string
	failures = append(failures, fmt.Sprintf("%s: %v", d.cfg.Engine, err))
	for _, candidate := range smartPreferenceOrder {
		if candidate == d.cfg.Engine {
			continue
		}
		if search.RequiresAPIKey(candidate) && d.apiKeyFor(candidate) == "" {
			continue
		}
		results, err := d.searchWith(ctx, candidate, query, mode, limit)
		if err == nil {
			slog.Info("smart autoswitch succeeded", "primary", d.cfg.Engine, "fallback", candidate)
			return results, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", candidate, err))
	}
	return nil, tarzierr.Wrap(tarzierr.NetworkError, "smart autoswitch exhausted every candidate provider", fmt.Errorf("%s", strings.Join(failures, "; ")))
}

func (d *Dispatcher) searchWith(ctx context.Context, engine search.EngineKind, query string, mode search.Mode, limit int) ([]search.Result, error) {
	p := d.parsers.GetParser(engine, mode)

	if mode == search.ApiQuery {
		if !search.SupportsApiQuery(engine) {
			return nil, tarzierr.EngineNotSupportedErr(string(engine), mode.String())
		}
		return d.searchAPI(ctx, engine, p, query, limit)
	}

	if !search.SupportsWebQuery(engine) {
		return nil, tarzierr.EngineNotSupportedErr(string(engine), mode.String())
	}
	return d.searchWeb(ctx, engine, p, query, limit)
}

// searchWeb expands the query pattern, always fetches in BrowserHeadless
// mode (many engines block non-browser clients), and hands the raw HTML to
// the parser. Sogou-Weixin CAPTCHA errors propagate verbatim.
func (d *Dispatcher) searchWeb(ctx context.Context, engine search.EngineKind, p parser.Parser, query string, limit int) ([]search.Result, error) {
	pattern := d.patternFor(engine, search.WebQuery)
	url := strings.ReplaceAll(pattern, "{query}", nurl.QueryEscape(query))

	html, err := d.fetcher.FetchRaw(ctx, url, fetch.BrowserHeadless)
	if err != nil {
		return nil, err
	}
	return p.Parse(html, limit)
}

func (d *Dispatcher) searchAPI(ctx context.Context, engine search.EngineKind, p parser.Parser, query string, limit int) ([]search.Result, error) {
	apiKey := d.apiKeyFor(engine)
	if search.RequiresAPIKey(engine) && apiKey == "" {
		return nil, tarzierr.New(tarzierr.ConfigError, fmt.Sprintf("engine %q requires an API key (%s) but none is configured", engine, search.APIKeyField(engine)))
	}

	pattern := d.patternFor(engine, search.ApiQuery)
	req, err := provider.BuildRequest(engine, pattern, query, apiKey)
	if err != nil {
		return nil, tarzierr.Wrap(tarzierr.ConfigError, "building api request", err)
	}
	req = req.WithContext(ctx)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, tarzierr.Wrap(tarzierr.NetworkError, fmt.Sprintf("calling %s api", engine), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, tarzierr.HttpStatusErr(resp.StatusCode, string(engine))
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tarzierr.Wrap(tarzierr.NetworkError, fmt.Sprintf("reading %s api response", engine), err)
	}
	return p.Parse(string(buf), limit)
}

func (d *Dispatcher) patternFor(engine search.EngineKind, mode search.Mode) string {
	if engine == d.cfg.Engine && d.cfg.QueryPattern != "" {
		return d.cfg.QueryPattern
	}
	return search.QueryPattern(engine, mode)
}

func (d *Dispatcher) apiKeyFor(engine search.EngineKind) string {
	if d.cfg.APIKeys == nil {
		return ""
	}
	return d.cfg.APIKeys[engine]
}

// FetchedResult pairs a search result with its fetched, converted content.
type FetchedResult struct {
	Result  search.Result
	Content string
}

// SearchAndFetch runs Search, then fetches each result's page in fetchMode,
// converting to format. Per-result fetch failures are logged and skipped;
// surviving entries preserve the input order (spec §4.E, §5).
func (d *Dispatcher) SearchAndFetch(ctx context.Context, query string, mode search.Mode, limit int, fetchMode fetch.Mode, format convert.Format) ([]FetchedResult, error) {
	results, err := d.Search(ctx, query, mode, limit)
	if err != nil {
		return nil, err
	}

	out := make([]FetchedResult, 0, len(results))
	for _, r := range results {
		content, err := d.fetcher.Fetch(ctx, r.URL, fetchMode, format)
		if err != nil {
			slog.Warn("search_and_fetch: per-result fetch failed, skipping", "url", r.URL, "err", err)
			continue
		}
		out = append(out, FetchedResult{Result: r, Content: content})
	}
	return out, nil
}

// Shutdown tears down the embedded Fetcher's browser pool and any
// self-managed driver.
func (d *Dispatcher) Shutdown() {
	d.fetcher.Shutdown()
}
