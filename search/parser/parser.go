// Package parser maps (engine, mode) pairs to the normalized-result
// extractor that knows how to read that pair's raw content, HTML or JSON.
package parser

import (
	"fmt"

	"github.com/use-agent/tarzi/search"
)

// Parser extracts a bounded, ranked list of results from raw content. Parse
// must be pure: no I/O, no shared mutable state, safe for concurrent reuse.
type Parser interface {
	Parse(content string, limit int) ([]search.Result, error)
}

// Factory maps (engine, mode) to a Parser.
type Factory struct{}

// NewFactory returns a ready-to-use Factory.
func NewFactory() *Factory { return &Factory{} }

// GetParser returns the parser for (engine, mode). Pairs with no native
// support (e.g. Bing+API) get a deterministic fallback parser instead of an
// error, matching spec §4.D's graceful-degradation contract.
func (f *Factory) GetParser(engine search.EngineKind, mode search.Mode) Parser {
	if mode == search.WebQuery {
		switch engine {
		case search.Bing:
			return bingParser{}
		case search.DuckDuckGo:
			return duckDuckGoHTMLParser{}
		case search.Google, search.GoogleSerper:
			return googleParser{}
		case search.BraveSearch:
			return braveParser{}
		case search.Baidu:
			return baiduParser{}
		case search.SogouWeixin:
			return sogouWeixinParser{}
		}
	} else {
		switch engine {
		case search.DuckDuckGo:
			return duckDuckGoAPIParser{}
		case search.Google, search.GoogleSerper:
			return jsonArrayParser{arrayPath: []string{"organic"}, urlField: "link"}
		case search.BraveSearch:
			return jsonArrayParser{arrayPath: []string{"web", "results"}, urlField: "url"}
		case search.Baidu:
			return jsonArrayParser{arrayPath: []string{"results"}, urlField: "url"}
		case search.Exa:
			return jsonArrayParser{arrayPath: []string{"results"}, urlField: "url", snippetField: "text", truncateSnippet: 200}
		case search.Travily:
			return jsonArrayParser{arrayPath: []string{"results"}, urlField: "url", snippetField: "content", truncateSnippet: 200}
		}
	}
	return fallbackParser{engine: engine, mode: mode}
}

// fallbackParser returns deterministic placeholder results for (engine,
// mode) pairs that aren't natively supported. Callers MUST NOT rely on its
// content semantically (spec §4.D).
type fallbackParser struct {
	engine search.EngineKind
	mode   search.Mode
}

func (p fallbackParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 {
		return []search.Result{}, nil
	}
	return []search.Result{{
		Title:   fmt.Sprintf("unsupported: %s/%s", p.engine, p.mode),
		URL:     "",
		Snippet: "",
		Rank:    1,
	}}, nil
}
