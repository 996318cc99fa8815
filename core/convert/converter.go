// Package convert turns one wiki page identifier into a per-page PDF artifact:
// fetch the printable page, skip drafts, sanitize the markup, render.
package convert

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/config"
	"github.com/gaurav-prasanna/cheatbook/core/output"
	"github.com/gaurav-prasanna/cheatbook/core/render"
	"github.com/gaurav-prasanna/cheatbook/core/sanitize"
)

// Status is the outcome of converting one page.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome for one identifier. Path is set only when Status is
// StatusConverted; Err is set only when Status is StatusFailed.
type Result struct {
	Identifier string
	Status     Status
	Path       string
	Err        error
	Duration   time.Duration
}

// Converter converts pages one identifier at a time. It is safe for
// concurrent use when its Fetcher and Renderer are.
type Converter struct {
	fetcher   core.Fetcher
	renderer  core.Renderer
	scratch   *output.Scratch
	sanitizer *sanitize.Sanitizer
	cfg       config.Config
}

// New creates a Converter. It fails when cfg carries invalid sanitizer rules.
func New(fetcher core.Fetcher, renderer core.Renderer, scratch *output.Scratch, cfg config.Config) (*Converter, error) {
	s, err := sanitize.New(cfg.Rules)
	if err != nil {
		return nil, err
	}
	return &Converter{
		fetcher:   fetcher,
		renderer:  renderer,
		scratch:   scratch,
		sanitizer: s,
		cfg:       cfg,
	}, nil
}

// IsDraft reports whether marker appears anywhere in html, ignoring case.
func IsDraft(html, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(html), strings.ToUpper(marker))
}

// Convert produces the PDF artifact for id.
//
// A blank id yields core.ErrInvalidArgument and a failed fetch yields the fetch
// error; both abandon only this identifier and come with a StatusFailed result
// carrying the same error. Render failures are not returned as errors: they
// come back as StatusFailed with a *core.RenderFailure.
func (c *Converter) Convert(ctx context.Context, id string) (Result, error) {
	start := time.Now()
	result := Result{Identifier: id}
	fail := func(err error) (Result, error) {
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)
		return result, err
	}

	if strings.TrimSpace(id) == "" {
		return fail(fmt.Errorf("%w: page identifier cannot be empty", core.ErrInvalidArgument))
	}

	pageURL := c.cfg.PageURL(id)
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return fail(fmt.Errorf("fetching page %s: %w", id, err))
	}

	if c.cfg.SkipDrafts && IsDraft(page.HTML, c.cfg.DraftMarker) {
		result.Status = StatusSkipped
		result.Duration = time.Since(start)
		return result, nil
	}

	html := c.sanitizer.Apply(page.HTML)
	path := c.scratch.ArtifactPath(id)

	opts := maps.Clone(c.cfg.RenderOptions)
	if opts == nil {
		opts = core.RenderOptions{}
	}
	if _, ok := opts[render.OptSource]; !ok {
		opts[render.OptSource] = pageURL
	}

	if err := c.render(ctx, html, path, opts); err != nil {
		// A partial file must not look like a finished artifact.
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
		result.Status = StatusFailed
		result.Err = &core.RenderFailure{Identifier: id, Err: err}
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Status = StatusConverted
	result.Path = path
	result.Duration = time.Since(start)
	return result, nil
}

// render invokes the backend, turning a panic into an error so that one bad
// page cannot stop the batch.
func (c *Converter) render(ctx context.Context, html, path string, opts core.RenderOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return c.renderer.Render(ctx, html, path, opts)
}
