// Package search holds the data model shared by the dispatcher, the parser
// factory, and the per-engine providers: result records, engine kinds, and
// the two query modes.
package search

import "strings"

// Mode selects whether a search is performed against the human-facing
// results page or a provider's JSON API.
type Mode int

const (
	WebQuery Mode = iota
	ApiQuery
)

func (m Mode) String() string {
	if m == ApiQuery {
		return "apiquery"
	}
	return "webquery"
}

// ModeFromString parses the config/CLI vocabulary for Mode.
func ModeFromString(s string) Mode {
	if strings.EqualFold(s, "apiquery") {
		return ApiQuery
	}
	return WebQuery
}

// EngineKind is the closed set of search providers known to the dispatcher.
type EngineKind string

const (
	Bing         EngineKind = "bing"
	DuckDuckGo   EngineKind = "duckduckgo"
	Google       EngineKind = "google"
	BraveSearch  EngineKind = "brave"
	Baidu        EngineKind = "baidu"
	Exa          EngineKind = "exa"
	Travily      EngineKind = "travily"
	GoogleSerper EngineKind = "google_serper"
	SogouWeixin  EngineKind = "sogou_weixin"
)

// EngineKindFromString parses the config/CLI vocabulary for EngineKind,
// defaulting unrecognized strings to DuckDuckGo the way the dispatcher's
// own default config does (spec §6).
func EngineKindFromString(s string) EngineKind {
	switch strings.ToLower(s) {
	case "bing":
		return Bing
	case "duckduckgo":
		return DuckDuckGo
	case "google":
		return Google
	case "brave", "bravesearch":
		return BraveSearch
	case "baidu":
		return Baidu
	case "exa":
		return Exa
	case "travily", "tavily":
		return Travily
	case "google_serper", "googleserper":
		return GoogleSerper
	case "sogou_weixin", "sogouweixin":
		return SogouWeixin
	default:
		return DuckDuckGo
	}
}

// QueryPattern returns the built-in URL template for kind under mode. The
// template contains the literal substitution point "{query}" for WebQuery
// patterns; ApiQuery patterns are full endpoints, and only DuckDuckGo's
// carries "{query}" (the other engines send the query as a URL parameter or
// in a JSON body). An empty string means there is no built-in pattern for
// the (kind, mode) pair.
func QueryPattern(kind EngineKind, mode Mode) string {
	switch kind {
	case Bing:
		if mode == WebQuery {
			return "https://www.bing.com/search?q={query}"
		}
		return ""
	case DuckDuckGo:
		if mode == WebQuery {
			return "https://duckduckgo.com/?q={query}"
		}
		return "https://api.duckduckgo.com/?q={query}&format=json"
	case Google:
		if mode == WebQuery {
			return "https://www.google.com/search?q={query}"
		}
		return "https://google.serper.dev/search"
	case GoogleSerper:
		if mode == WebQuery {
			return "https://www.google.com/search?q={query}"
		}
		return "https://google.serper.dev/search"
	case BraveSearch:
		if mode == WebQuery {
			return "https://search.brave.com/search?q={query}"
		}
		return "https://api.search.brave.com/res/v1/web/search"
	case Baidu:
		if mode == WebQuery {
			return "https://www.baidu.com/s?wd={query}"
		}
		return "https://api.baidu.com/search"
	case Exa:
		if mode == WebQuery {
			return "https://exa.ai/search?q={query}"
		}
		return "https://api.exa.ai/search"
	case Travily:
		if mode == WebQuery {
			return ""
		}
		return "https://api.tavily.com/search"
	case SogouWeixin:
		if mode == WebQuery {
			return "https://weixin.sogou.com/weixin?type=2&query={query}"
		}
		return ""
	default:
		return "{query}"
	}
}

// SupportsWebQuery reports whether kind has a web results page.
func SupportsWebQuery(kind EngineKind) bool {
	return kind != Travily
}

// SupportsApiQuery reports whether kind accepts ApiQuery mode; only Bing
// does not. SogouWeixin is accepted but has no built-in API endpoint or
// request builder, so an ApiQuery against it fails when the request is built.
func SupportsApiQuery(kind EngineKind) bool {
	return kind != Bing
}

// RequiresAPIKey reports whether ApiQuery mode needs a configured key.
func RequiresAPIKey(kind EngineKind) bool {
	switch kind {
	case Bing, DuckDuckGo, SogouWeixin:
		return false
	default:
		return true
	}
}

// APIKeyField names the config field (<engine>_api_key) holding kind's key.
func APIKeyField(kind EngineKind) string {
	switch kind {
	case Bing, DuckDuckGo, SogouWeixin:
		return ""
	case Google, GoogleSerper:
		return "google_serper_api_key"
	case BraveSearch:
		return "brave_api_key"
	case Baidu:
		return "baidu_api_key"
	case Exa:
		return "exa_api_key"
	case Travily:
		return "travily_api_key"
	default:
		return ""
	}
}

// Result is the normalized record emitted by every parser. Rank is 1-based
// and dense within the list it belongs to; it is assigned by the parser from
// the result's position, never inherited from the source page.
type Result struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
	Rank    int    `json:"rank" yaml:"rank"`
}
