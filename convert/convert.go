// Package convert turns raw fetched HTML into one of the caller-selected
// output formats (spec §4.C): the HTML passes through unchanged, Markdown
// goes through html-to-markdown, and Json/Yaml first build a Document
// record extracted from the page before serializing it.
package convert

import (
	"encoding/json"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/tarzi/tarzierr"
)

// Format is the caller-selected output representation.
type Format int

const (
	Html Format = iota
	Markdown
	Json
	Yaml
)

// FormatFromString parses the config/CLI vocabulary for Format.
func FormatFromString(s string) Format {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return Markdown
	case "json":
		return Json
	case "yaml", "yml":
		return Yaml
	default:
		return Html
	}
}

// Document is the normalized record built for Json/Yaml output. Content is
// the Markdown conversion of the page's main article; Title comes from
// readability; Links and Images are read from the raw HTML.
type Document struct {
	Title   string  `json:"title" yaml:"title"`
	Content string  `json:"content" yaml:"content"`
	Links   []Link  `json:"links" yaml:"links"`
	Images  []Image `json:"images" yaml:"images"`
}

// Link is one extracted anchor, resolved to an absolute URL.
type Link struct {
	Href string `json:"href" yaml:"href"`
	Text string `json:"text" yaml:"text"`
}

// Image is one extracted <img>, resolved to an absolute URL.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

// Converter holds the reusable, goroutine-safe Markdown converter. The zero
// value is not usable; construct with New.
type Converter struct {
	md *converter.Converter
}

// New builds a Converter configured the way the pipeline needs it: base
// plugin strips script/style/noise tags, commonmark renders standard
// Markdown, table preserves tabular structure with minimal cell padding.
func New() *Converter {
	return &Converter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// Convert turns rawHTML fetched from sourceURL into format. Html
// short-circuits and returns rawHTML unchanged.
func (c *Converter) Convert(rawHTML, sourceURL string, format Format) (string, error) {
	switch format {
	case Html:
		return rawHTML, nil
	case Markdown:
		return c.toMarkdown(rawHTML, sourceURL)
	case Json:
		doc, err := c.toDocument(rawHTML, sourceURL)
		if err != nil {
			return "", err
		}
		return marshalJSON(doc)
	case Yaml:
		doc, err := c.toDocument(rawHTML, sourceURL)
		if err != nil {
			return "", err
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return "", tarzierr.Wrap(tarzierr.ParseError, "encoding document as yaml", err)
		}
		return string(data), nil
	default:
		return rawHTML, nil
	}
}

func (c *Converter) toMarkdown(rawHTML, sourceURL string) (string, error) {
	domain := hostOf(sourceURL)
	md, err := c.md.ConvertString(rawHTML, converter.WithDomain(domain))
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.ParseError, "converting html to markdown", err)
	}
	return md, nil
}

// toDocument extracts title/content via readability (falling back to raw
// HTML when extraction fails or is too short), then Markdown-converts the
// content and pulls links/images out of the raw HTML. On the fallback path
// Title is empty.
func (c *Converter) toDocument(rawHTML, sourceURL string) (Document, error) {
	article, ok := extractArticle(rawHTML, sourceURL)
	content := article.Content
	if !ok {
		content = rawHTML
	}

	md, err := c.toMarkdown(content, sourceURL)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Title:   article.Title,
		Content: md,
		Links:   extractLinks(rawHTML, sourceURL),
		Images:  extractImages(rawHTML, sourceURL),
	}, nil
}

const minContentLength = 50

func extractArticle(rawHTML, sourceURL string) (readability.Article, bool) {
	parsed, err := nurl.Parse(sourceURL)
	if err != nil {
		return readability.Article{Content: rawHTML, TextContent: rawHTML}, false
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		return readability.Article{Content: rawHTML, TextContent: rawHTML}, false
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		return readability.Article{Content: rawHTML, TextContent: rawHTML}, false
	}
	return article, true
}

func extractLinks(rawHTML, sourceURL string) []Link {
	links := []Link{}
	base, err := nurl.Parse(sourceURL)
	if err != nil {
		return links
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return links
	}
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, Link{Href: abs, Text: strings.TrimSpace(s.Text())})
	})
	return links
}

func extractImages(rawHTML, sourceURL string) []Image {
	images := []Image{}
	base, err := nurl.Parse(sourceURL)
	if err != nil {
		return images
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return images
	}
	seen := make(map[string]struct{})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists || src == "" {
			return
		}
		resolved, err := base.Parse(src)
		if err != nil || resolved.Scheme == "data" {
			return
		}
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		alt, _ := s.Attr("alt")
		images = append(images, Image{Src: abs, Alt: strings.TrimSpace(alt)})
	})
	return images
}

func marshalJSON(doc Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", tarzierr.Wrap(tarzierr.ParseError, "encoding document as json", err)
	}
	return string(data), nil
}

func hostOf(rawURL string) string {
	parsed, err := nurl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
