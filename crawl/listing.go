// Package crawl extracts page identifiers from the wiki's category listing.
// It keeps discovery separate from the per-page conversion pipeline.
package crawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/config"
)

// Lister turns the category index page into an ordered list of identifiers.
type Lister struct {
	fetcher core.Fetcher
	cfg     config.Config
}

// NewLister creates a Lister reading cfg.ListingURL through fetcher.
func NewLister(fetcher core.Fetcher, cfg config.Config) *Lister {
	return &Lister{fetcher: fetcher, cfg: cfg}
}

// Extract fetches the listing and returns identifiers in document order.
// Excluded identifiers are dropped; duplicates are kept.
func (l *Lister) Extract(ctx context.Context) ([]string, error) {
	result, err := l.fetcher.Fetch(ctx, l.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	return ParseListing(result.HTML, l.cfg)
}

// ParseListing extracts identifiers from the listing markup. Sections matching
// cfg.GroupSelector and the links inside them are visited in document order.
func ParseListing(html string, cfg config.Config) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	ids := []string{}
	doc.Find(cfg.GroupSelector).Each(func(_ int, section *goquery.Selection) {
		section.Find("a").Each(func(_ int, link *goquery.Selection) {
			href, ok := link.Attr("href")
			if !ok {
				return
			}
			id := IdentifierFromHref(href, cfg.LinkPrefix)
			if id == "" || cfg.Excluded(id) {
				return
			}
			ids = append(ids, id)
		})
	})
	return ids, nil
}
