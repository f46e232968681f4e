package parser

import (
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/tarzi/search"
	"github.com/use-agent/tarzi/tarzierr"
)

// sogouWeixinParser extracts WeChat article links from a Sogou-Weixin
// results page, resolving Sogou's redirect wrapper back to the underlying
// mp.weixin.qq.com URL and detecting Sogou's human-verification page.
type sogouWeixinParser struct{}

// captchaMarkers are the literal substrings Sogou's verification page is
// known to contain.
var captchaMarkers = []string{"此验证码用于确认", "验证码：", "VerifyCode"}

// fallbackLinkAttrs are scanned, in order, when an anchor has no href —
// some Sogou-Weixin markup variants carry the article link in a data
// attribute instead.
var fallbackLinkAttrs = []string{"data-share", "data-url", "data-href", "data-shareurl", "data-link"}

func (sogouWeixinParser) Parse(content string, limit int) ([]search.Result, error) {
	if limit == 0 || content == "" {
		return []search.Result{}, nil
	}
	for _, marker := range captchaMarkers {
		if strings.Contains(content, marker) {
			return nil, tarzierr.New(tarzierr.CaptchaDetected, "sogou-weixin verification page detected")
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return []search.Result{}, nil
	}

	out := make([]search.Result, 0, limit)
	seen := make(map[string]struct{})

	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := linkFromAnchor(s)
		resolved := resolveWeixinURL(href)
		if resolved == "" {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}

		title := strings.TrimSpace(s.Text())
		out = append(out, search.Result{Title: title, URL: resolved, Snippet: "", Rank: len(out) + 1})
		return len(out) < limit
	})
	return out, nil
}

func linkFromAnchor(s *goquery.Selection) string {
	if href, ok := s.Attr("href"); ok && href != "" {
		return href
	}
	for _, attr := range fallbackLinkAttrs {
		if v, ok := s.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

// resolveWeixinURL returns the underlying mp.weixin.qq.com URL for href, or
// "" if href doesn't point to mp.weixin (directly or via a Sogou redirect).
func resolveWeixinURL(href string) string {
	if href == "" {
		return ""
	}
	if isMpWeixinURL(href) {
		return normalizeWeixinURL(href)
	}
	if isSogouWeixinRedirectURL(href) {
		inner := extractURLParam(href)
		if inner != "" && isMpWeixinURL(inner) {
			return normalizeWeixinURL(inner)
		}
	}
	return ""
}

func isMpWeixinURL(href string) bool {
	h := href
	if strings.HasPrefix(h, "//") {
		h = "https:" + h
	}
	parsed, err := nurl.Parse(h)
	if err != nil {
		return false
	}
	return parsed.Host == "mp.weixin.qq.com"
}

func normalizeWeixinURL(href string) string {
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func isSogouWeixinRedirectURL(href string) bool {
	h := href
	if strings.HasPrefix(h, "/link?") {
		h = "https://weixin.sogou.com" + h
	} else if strings.HasPrefix(h, "//weixin.sogou.com/link?") {
		h = "https:" + h
	}
	return strings.Contains(h, "weixin.sogou.com/link?") && strings.Contains(h, "url=")
}

func extractURLParam(href string) string {
	h := href
	if strings.HasPrefix(h, "/link?") {
		h = "https://weixin.sogou.com" + h
	} else if strings.HasPrefix(h, "//") {
		h = "https:" + h
	}
	parsed, err := nurl.Parse(h)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("url")
}
