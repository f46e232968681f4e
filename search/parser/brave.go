package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
)

// braveParser extracts results from Brave Search's web results page.
type braveParser struct{}

func (braveParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	doc.Find(".result-row").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find("a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		url := normalizeURL(href, "https://search.brave.com")
		if title == "" || url == "" {
			return true
		}
		snippet := strings.TrimSpace(s.Find(".result-snippet").First().Text())

		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}
