package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
)

// googleParser extracts results from a Google web-search results page. The
// container and snippet classes are Google's historical, frequently
// reshuffled markup; the multi-strategy fallback chain tries several
// generations of selectors in order. Test against current Google markup
// periodically and expect drift (spec §9).
type googleParser struct{}

var googleContainerSelectors = []string{".tF2Cxc", ".g", ".rc", ".result", ".serp-item"}

var googleTitleSelectors = []string{".yuRUbf a", ".LC20lb", ".DKV0Md", ".result__a", "h3 a"}

var googleSnippetSelectors = []string{".IsZvec", ".VwiC3b", ".yXK7lf", ".s", ".st", ".aCOpRe", ".result__snippet"}

func (googleParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	var containers *goquery.Selection
	for _, sel := range googleContainerSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	seen := make(map[string]struct{})

	containers.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title, href := googleTitle(s)
		if title == "" {
			return true
		}
		url := normalizeURL(href, "https://www.google.com")
		if url == "" {
			return true
		}
		if _, dup := seen[url]; dup {
			return true
		}
		seen[url] = struct{}{}

		snippet := googleSnippet(s)
		out = append(out, search.Result{Title: title, URL: url, Snippet: snippet, Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}

func googleTitle(s *goquery.Selection) (title, href string) {
	for _, sel := range googleTitleSelectors {
		node := s.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(node.Text())
		if text == "" {
			continue
		}
		if h, ok := node.Attr("href"); ok {
			return text, h
		}
		if h, ok := node.Closest("a").Attr("href"); ok {
			return text, h
		}
		return text, ""
	}
	first := s.Find("a").First()
	text := strings.TrimSpace(first.Text())
	h, _ := first.Attr("href")
	return text, h
}

func googleSnippet(s *goquery.Selection) string {
	for _, sel := range googleSnippetSelectors {
		text := strings.TrimSpace(s.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
