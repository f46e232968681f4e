// Command tarzi-mcp exposes search, fetch, and search_and_fetch as MCP
// tools, calling straight into the dispatcher/fetch packages rather than a
// running tarzi-server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/tarzi/config"
	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/dispatcher"
	"github.com/use-agent/tarzi/driver"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	path, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolving config path:", err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}

	fetchCfg := fetch.Config{
		UserAgent:            cfg.Fetcher.UserAgent,
		Proxy:                cfg.Fetcher.Proxy,
		PreferredDriver:      driver.KindFromString(cfg.Fetcher.WebDriver),
		WebDriverURL:         cfg.Fetcher.WebDriverURL,
		ExternalBrowserWSURL: config.ExternalBrowserEndpoint(),
	}
	f := fetch.New(fetchCfg)
	defer f.Shutdown()

	d := dispatcher.New(dispatcher.Config{
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
		Fetch: fetchCfg,
	})
	defer d.Shutdown()

	s := server.NewMCPServer("tarzi", "1.0.0", server.WithToolCapabilities(false))

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Run a web search query and return ranked results (title, url, snippet)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
		mcp.WithString("mode", mcp.Description("Search mode: webquery (default) or apiquery"), mcp.Enum("webquery", "apiquery")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	)
	s.AddTool(searchTool, handleSearch(d, cfg))

	fetchTool := mcp.NewTool("fetch",
		mcp.WithDescription("Fetch a URL and convert the page to markdown, html, json, or yaml."),
		mcp.WithString("url", mcp.Required(), mcp.Description("The URL to fetch")),
		mcp.WithString("format", mcp.Description("Output format: markdown, html, json, or yaml (defaults to the configured fetcher format)"), mcp.Enum("markdown", "html", "json", "yaml")),
		mcp.WithString("mode", mcp.Description("Fetch mode: plain_request, browser_head, browser_headless, browser_head_external")),
	)
	s.AddTool(fetchTool, handleFetch(f, cfg))

	searchAndFetchTool := mcp.NewTool("search_and_fetch",
		mcp.WithDescription("Search, then fetch and convert every result page. Per-result fetch failures are skipped."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
		mcp.WithString("format", mcp.Description("Output format for fetched pages"), mcp.Enum("markdown", "html", "json", "yaml")),
	)
	s.AddTool(searchAndFetchTool, handleSearchAndFetch(d, cfg))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintln(os.Stderr, "mcp server exited:", err)
		os.Exit(1)
	}
}

func handleSearch(d *dispatcher.Dispatcher, cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		mode := request.GetString("mode", cfg.Search.Mode)
		limit := intArg(request, "limit", cfg.Search.Limit)

		results, err := d.Search(ctx, query, search.ModeFromString(mode), limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var out string
		for _, r := range results {
			out += fmt.Sprintf("%d. %s\n   %s\n   %s\n\n", r.Rank, r.Title, r.URL, r.Snippet)
		}
		if out == "" {
			out = "no results"
		}
		return mcp.NewToolResultText(out), nil
	}
}

func handleFetch(f *fetch.Fetcher, cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", cfg.Fetcher.Format)
		mode := request.GetString("mode", cfg.Fetcher.Mode)

		content, err := f.Fetch(ctx, url, fetch.ModeFromString(mode), convert.FormatFromString(format))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(content), nil
	}
}

func handleSearchAndFetch(d *dispatcher.Dispatcher, cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := intArg(request, "limit", cfg.Search.Limit)
		format := request.GetString("format", cfg.Fetcher.Format)

		fetched, err := d.SearchAndFetch(ctx, query, search.ModeFromString(cfg.Search.Mode), limit,
			fetch.ModeFromString(cfg.Fetcher.Mode), convert.FormatFromString(format))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var out string
		for _, r := range fetched {
			out += fmt.Sprintf("=== %s (%s) ===\n%s\n\n", r.Result.Title, r.Result.URL, r.Content)
		}
		if out == "" {
			out = "no results"
		}
		return mcp.NewToolResultText(out), nil
	}
}

// intArg reads a numeric tool argument, which JSON decodes as float64, and
// falls back to def when absent.
func intArg(request mcp.CallToolRequest, name string, def int) int {
	args := request.GetArguments()
	v, ok := args[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}
