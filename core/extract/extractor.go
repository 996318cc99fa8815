// Package extract isolates the printable article body from a wiki page by:
//  1. Removing noise elements (scripts, site chrome, edit links, images)
//  2. Picking the best content container (MediaWiki body, <main>, <article>, <body>)
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before extraction.
var noiseSelectors = []string{
	"script", "style", "noscript", "base",
	"nav", "footer",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	"#jump-to-nav", "#siteSub", "#contentSub", "#catlinks",
	".mw-editsection", ".printfooter", ".toc", ".noprint",
}

// containerSelectors are tried in priority order.
var containerSelectors = []string{"#mw-content-text", "#content", "main", "article", "body"}

// HTMLExtractor strips noise from HTML and returns the main content fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract takes page HTML and returns a cleaned fragment with the article body.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range containerSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	result, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return result, nil
}

// Title returns the page heading, falling back to <title>.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if h := strings.TrimSpace(doc.Find("#firstHeading").First().Text()); h != "" {
		return h
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// MediaWiki titles carry a " - <site name>" suffix.
	if i := strings.LastIndex(title, " - "); i > 0 {
		title = title[:i]
	}
	return title
}
