package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
)

// baiduParser extracts results from a Baidu web-search results page,
// skipping containers flagged as advertisements.
type baiduParser struct{}

func (baiduParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	doc.Find(".result.c-container").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, isAd := s.Attr("data-tuiguang"); isAd {
			return true
		}
		anchor := s.Find("h3 > a").First()
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}
		url, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(s.Find(".c-abstract").First().Text())

		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}
