package parser

import (
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/use-agent/tarzi/search"
	"github.com/use-agent/tarzi/tarzierr"
)

// jsonArrayParser extracts a provider-specific array path from a JSON API
// response (spec §4.D). Field names vary per provider; urlField/titleField/
// snippetField default to "url"/"title"/"snippet" when empty.
type jsonArrayParser struct {
	arrayPath       []string
	titleField      string
	urlField        string
	snippetField    string
	truncateSnippet int
}

func (p jsonArrayParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	titleField := orDefault(p.titleField, "title")
	urlField := orDefault(p.urlField, "url")
	snippetField := orDefault(p.snippetField, "snippet")

	out := make([]search.Result, 0, limit)
	var parseErr error

	_, err := jsonparser.ArrayEach([]byte(content), func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || parseErr != nil || len(out) >= limit {
			return
		}
		title, _ := jsonparser.GetString(value, titleField)
		url, _ := jsonparser.GetString(value, urlField)
		if title == "" && url == "" {
			return
		}
		snippet, _ := jsonparser.GetString(value, snippetField)
		if p.truncateSnippet > 0 && len(snippet) > p.truncateSnippet {
			snippet = snippet[:p.truncateSnippet]
		}
		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
	}, p.arrayPath...)

	if err != nil && len(out) == 0 {
		return nil, tarzierr.Wrap(tarzierr.ParseError, fmt.Sprintf("reading array at %v", p.arrayPath), err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// duckDuckGoAPIParser reads the Instant-Answer API: an optional synthesized
// record from AbstractText/Heading/AbstractURL, prepended to RelatedTopics[].
// Ranks are 1-based and dense (spec §9 overrides the original's 0-based
// inconsistency here).
type duckDuckGoAPIParser struct{}

func (duckDuckGoAPIParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	data := []byte(content)
	out := make([]search.Result, 0, limit)

	abstractText, _ := jsonparser.GetString(data, "AbstractText")
	heading, _ := jsonparser.GetString(data, "Heading")
	abstractURL, _ := jsonparser.GetString(data, "AbstractURL")
	if abstractText != "" || heading != "" || abstractURL != "" {
		title := heading
		if title == "" {
			title = abstractText
		}
		out = append(out, search.Result{Title: title, URL: abstractURL, Snippet: abstractText, Rank: 1})
	}

	if len(out) >= limit {
		return out[:limit], nil
	}

	jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || len(out) >= limit {
			return
		}
		text, _ := jsonparser.GetString(value, "Text")
		firstURL, _ := jsonparser.GetString(value, "FirstURL")
		if text == "" && firstURL == "" {
			return
		}
		title := text
		if idx := strings.Index(text, " - "); idx >= 0 {
			title = text[:idx]
		}
		out = append(out, search.Result{Title: title, URL: firstURL, Snippet: text, Rank: len(out) + 1})
	}, "RelatedTopics")

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
