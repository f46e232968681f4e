package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
)

// bingParser extracts results from a Bing web-search results page.
type bingParser struct{}

func (bingParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	doc.Find("li.b_algo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("h2 a").First().Text())
		if title == "" {
			return true
		}
		href, _ := s.Find("h2 a").First().Attr("href")
		url := normalizeURL(href, "https://www.bing.com")
		snippet := strings.TrimSpace(s.Find(".b_caption p").First().Text())

		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}

// normalizeURL resolves a possibly-relative href against origin, following
// spec §8's URL-normalization rules: "/x" → origin+"/x"; "//host/p" →
// "https://host/p"; anything already absolute passes through unchanged.
func normalizeURL(href, origin string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return href
}
