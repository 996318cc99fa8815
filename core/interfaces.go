// Package core defines the pipeline interfaces for cheatbook.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// RenderOptions are backend-specific rendering knobs (e.g. "page_size").
// An empty map means backend defaults.
type RenderOptions map[string]string

// Get returns the option value or def when it is unset or blank.
func (o RenderOptions) Get(key, def string) string {
	if v, ok := o[key]; ok && v != "" {
		return v
	}
	return def
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer turns an HTML document into a PDF file at outputPath.
type Renderer interface {
	Render(ctx context.Context, html string, outputPath string, opts RenderOptions) error
}

// Merger concatenates PDF files, in order, into a single output file.
type Merger interface {
	Merge(paths []string, outputPath string) error
}
