// Command tarzi-server is the optional HTTP front-end over search, fetch,
// and convert, for agent pipelines that prefer a service to an embedded
// library.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/use-agent/tarzi/api"
	"github.com/use-agent/tarzi/config"
	"github.com/use-agent/tarzi/convert"
	"github.com/use-agent/tarzi/dispatcher"
	"github.com/use-agent/tarzi/driver"
	"github.com/use-agent/tarzi/fetch"
	"github.com/use-agent/tarzi/search"
)

func main() {
	configPath := flag.String("config", "", "Path to the TOML config file.")
	addr := flag.String("addr", "", "Listen address, overrides the config file.")
	verbose := flag.Bool("verbose", false, "Enable debug logging.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			slog.Error("resolving config path", "err", err)
			os.Exit(1)
		}
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
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

	conv := convert.New()

	router := api.NewRouter(cfg, d, f, conv, time.Now())
	slog.Info("listening", "addr", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
