// Command tarzi is the thin CLI surface over the core library: it parses
// arguments, calls the operations in driver/browser/fetch/search/convert,
// and prints. All real work happens in those packages.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/use-agent/tarzi/config"
	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/dispatcher"
	"github.com/use-agent/tarzi/driver"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
)

type cli struct {
	Config  string `help:"Path to the TOML config file." default:""`
	Verbose bool   `help:"Enable debug logging."`

	Convert        convertCmd        `cmd:"" help:"Convert local HTML to a chosen format."`
	Fetch          fetchCmd          `cmd:"" help:"Fetch a URL and convert it."`
	Search         searchCmd         `cmd:"" help:"Run a search query."`
	SearchAndFetch searchAndFetchCmd `cmd:"search-and-fetch" help:"Search, then fetch every result."`
}

type convertCmd struct {
	Input  string `help:"Path to the HTML file to convert." required:""`
	Format string `help:"Output format: html, markdown, json, yaml." default:"markdown"`
	Output string `help:"Write output to this file instead of stdout."`
}

func (c *convertCmd) Run(g *globals) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	conv := convert.New()
	out, err := conv.Convert(string(data), "file://"+c.Input, convert.FormatFromString(c.Format))
	if err != nil {
		return err
	}
	return writeOutput(c.Output, out)
}

type fetchCmd struct {
	URL    string `help:"URL to fetch." required:""`
	Mode   string `help:"Fetch mode: plain_request, browser_head, browser_headless, browser_head_external." default:""`
	Format string `help:"Output format: html, markdown, json, yaml." default:""`
	Output string `help:"Write output to this file instead of stdout."`
}

func (c *fetchCmd) Run(g *globals) error {
	mode := c.Mode
	if mode == "" {
		mode = g.cfg.Fetcher.Mode
	}
	format := c.Format
	if format == "" {
		format = g.cfg.Fetcher.Format
	}

	f := fetch.New(fetcherConfig(g.cfg))
	defer f.Shutdown()

	out, err := f.Fetch(context.Background(), c.URL, fetch.ModeFromString(mode), convert.FormatFromString(format))
	if err != nil {
		return err
	}
	return writeOutput(c.Output, out)
}

type searchCmd struct {
	Query  string `help:"Search query." required:""`
	Mode   string `help:"Search mode: webquery, apiquery." default:""`
	Limit  int    `help:"Maximum number of results." default:"0"`
	Output string `help:"Write output to this file instead of stdout."`
}

func (c *searchCmd) Run(g *globals) error {
	mode := c.Mode
	if mode == "" {
		mode = g.cfg.Search.Mode
	}
	limit := c.Limit
	if limit == 0 {
		limit = g.cfg.Search.Limit
	}

	d := dispatcherFor(g.cfg)
	defer d.Shutdown()

	results, err := d.Search(context.Background(), c.Query, search.ModeFromString(mode), limit)
	if err != nil {
		return err
	}
	var buf string
	for _, r := range results {
		buf += fmt.Sprintf("%d. %s\n   %s\n   %s\n\n", r.Rank, r.Title, r.URL, r.Snippet)
	}
	return writeOutput(c.Output, buf)
}

type searchAndFetchCmd struct {
	Query  string `help:"Search query." required:""`
	Mode   string `help:"Search mode: webquery, apiquery." default:""`
	Limit  int    `help:"Maximum number of results." default:"0"`
	Format string `help:"Output format for fetched pages." default:""`
	Output string `help:"Write output to this file instead of stdout."`
}

func (c *searchAndFetchCmd) Run(g *globals) error {
	mode := c.Mode
	if mode == "" {
		mode = g.cfg.Search.Mode
	}
	limit := c.Limit
	if limit == 0 {
		limit = g.cfg.Search.Limit
	}
	format := c.Format
	if format == "" {
		format = g.cfg.Fetcher.Format
	}

	d := dispatcherFor(g.cfg)
	defer d.Shutdown()

	fetched, err := d.SearchAndFetch(context.Background(), c.Query, search.ModeFromString(mode), limit,
		fetch.ModeFromString(g.cfg.Fetcher.Mode), convert.FormatFromString(format))
	if err != nil {
		return err
	}
	var buf string
	for _, r := range fetched {
		buf += fmt.Sprintf("=== %s (%s) ===\n%s\n\n", r.Result.Title, r.Result.URL, r.Content)
	}
	return writeOutput(c.Output, buf)
}

type globals struct {
	cfg *config.Config
}

func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func fetcherConfig(cfg *config.Config) fetch.Config {
	return fetch.Config{
		UserAgent:            cfg.Fetcher.UserAgent,
		Proxy:                cfg.Fetcher.Proxy,
		PreferredDriver:      driver.KindFromString(cfg.Fetcher.WebDriver),
		WebDriverURL:         cfg.Fetcher.WebDriverURL,
		ExternalBrowserWSURL: config.ExternalBrowserEndpoint(),
	}
}

func dispatcherFor(cfg *config.Config) *dispatcher.Dispatcher {
	return dispatcher.New(dispatcher.Config{
		Engine:       search.EngineKindFromString(cfg.Search.Engine),
		QueryPattern: cfg.Search.QueryPattern,
		UserAgent:    cfg.Fetcher.UserAgent,
		AutoSwitch:   dispatcher.AutoSwitchFromString(cfg.Search.AutoSwitch),
		APIKeys: map[search.EngineKind]string{
			search.GoogleSerper: cfg.Search.GoogleSerperAPIKey,
			search.BraveSearch:  cfg.Search.BraveAPIKey,
			search.Baidu:        cfg.Search.BaiduAPIKey,
			search.Exa:          cfg.Search.ExaAPIKey,
			search.Travily:      cfg.Search.TravilyAPIKey,
		},
		Fetch: fetcherConfig(cfg),
	})
}

func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	var c cli
	kctx := kong.Parse(&c, kong.Name("tarzi"), kong.Description("Programmable web search and content ingestion for agent pipelines."))

	initLogger(c.Verbose)

	path := c.Config
	var cfg *config.Config
	var err error
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			kctx.FatalIfErrorf(err)
		}
	}
	cfg, err = config.LoadOrCreate(path)
	if err != nil {
		kctx.FatalIfErrorf(err)
	}

	err = kctx.Run(&globals{cfg: cfg})
	kctx.FatalIfErrorf(err)
}
