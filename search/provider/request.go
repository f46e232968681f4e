// Package provider builds the HTTP request (method, headers, body) for each
// engine's API query, including the engine-specific auth convention spec
// §4.E and original_source/src/search/api.rs name.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"

	"github.com/use-agent/tarzi/search"
)

// BuildRequest returns the HTTP request for querying kind's API with query,
// authenticated with apiKey. pattern is the engine's API endpoint (spec
// §4.D/§6); query substitution, where the pattern takes one, happens here
// for GET-style engines and in the JSON body for POST-style ones.
func BuildRequest(kind search.EngineKind, pattern, query, apiKey string) (*http.Request, error) {
	switch kind {
	case search.BraveSearch:
		req, err := http.NewRequest(http.MethodGet, pattern+"?q="+queryEscape(query), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Subscription-Token", apiKey)
		req.Header.Set("Accept", "application/json")
		return req, nil

	case search.Google, search.GoogleSerper:
		body, err := json.Marshal(map[string]string{"q": query})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodPost, pattern, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-KEY", apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	case search.Exa:
		body, err := json.Marshal(map[string]string{"query": query})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodPost, pattern, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	case search.Travily:
		body, err := json.Marshal(map[string]string{"api_key": apiKey, "query": query})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequest(http.MethodPost, pattern, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil

	case search.Baidu:
		req, err := http.NewRequest(http.MethodGet, pattern+"?q="+queryEscape(query), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
		return req, nil

	case search.DuckDuckGo:
		expanded := expandQuery(pattern, query)
		return http.NewRequest(http.MethodGet, expanded, nil)

	default:
		return nil, fmt.Errorf("provider: engine %q has no API request builder", kind)
	}
}

func expandQuery(pattern, query string) string {
	return strings.ReplaceAll(pattern, "{query}", queryEscape(query))
}

func queryEscape(s string) string {
	return nurl.QueryEscape(s)
}
