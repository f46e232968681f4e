package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
)

// duckDuckGoHTMLParser extracts results from DuckDuckGo's HTML results page.
type duckDuckGoHTMLParser struct{}

func (duckDuckGoHTMLParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	doc.Find(".result__body").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}
		href, _ := anchor.Attr("href")
		url := normalizeURL(href, "https://duckduckgo.com")
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())

		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}
