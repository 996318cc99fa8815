package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/config"
	"github.com/gaurav-prasanna/cheatbook/core/output"
	"github.com/gaurav-prasanna/cheatbook/core/render"
)

// mockFetcher serves canned pages keyed by URL.
type mockFetcher struct {
	pages map[string]string
	err   error

	mu   sync.Mutex
	urls []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	html, ok := m.pages[url]
	if !ok {
		return nil, &core.FetchError{URL: url, StatusCode: 404}
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: html}, nil
}

// mockRenderer records its input and writes a placeholder file.
type mockRenderer struct {
	err      error
	partial  bool // write a file before failing
	panicMsg string

	calledHTML string
	calledPath string
	calledOpts core.RenderOptions
}

func (m *mockRenderer) Render(ctx context.Context, html, outputPath string, opts core.RenderOptions) error {
	m.calledHTML = html
	m.calledPath = outputPath
	m.calledOpts = opts
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		if m.partial {
			_ = os.WriteFile(outputPath, []byte("%PDF-partial"), 0o644)
		}
		return m.err
	}
	return os.WriteFile(outputPath, []byte("%PDF-1.4 fake"), 0o644)
}

func newTestConverter(t *testing.T, pages map[string]string, r core.Renderer) (*Converter, *output.Scratch, config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.PageURLTemplate = "https://wiki.test/index.php?title={id}&printable=yes"
	scratch := output.New(t.TempDir())

	prefixed := make(map[string]string, len(pages))
	for id, html := range pages {
		prefixed[cfg.PageURL(id)] = html
	}

	c, err := New(&mockFetcher{pages: prefixed}, r, scratch, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, scratch, cfg
}

const finalPage = `<html><head><title>Page A</title></head><body>` +
	`<div id="siteSub">From OWASP</div><h1><span>Page A body</span></h1>` +
	`<h2><span>Other Cheatsheets</span></h2><p>related</p></body></html>`

func TestConverter_Converted(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	c, scratch, cfg := newTestConverter(t, map[string]string{"Page_A": finalPage}, r)

	result, err := c.Convert(context.Background(), "Page_A")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Status != StatusConverted {
		t.Fatalf("Status = %v, want converted", result.Status)
	}
	if want := scratch.ArtifactPath("Page_A"); result.Path != want || r.calledPath != want {
		t.Errorf("Path = %q, render path = %q, want %q", result.Path, r.calledPath, want)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}

	if !strings.Contains(r.calledHTML, `<base href="https://www.owasp.org/" target="_blank"></head>`) {
		t.Errorf("base reference not injected: %q", r.calledHTML)
	}
	if strings.Contains(r.calledHTML, "related") || strings.Contains(r.calledHTML, "From OWASP") {
		t.Errorf("markup not cleaned: %q", r.calledHTML)
	}
	if !strings.HasSuffix(r.calledHTML, "</span></h1></body></html>") {
		t.Errorf("closing suffix missing: %q", r.calledHTML)
	}
	if got := r.calledOpts[render.OptSource]; got != cfg.PageURL("Page_A") {
		t.Errorf("source option = %q", got)
	}
}

func TestConverter_SkipsDraft(t *testing.T) {
	t.Parallel()

	draft := "<html><body><p>This is a draft cheat sheet</p></body></html>"
	r := &mockRenderer{}
	c, scratch, _ := newTestConverter(t, map[string]string{"Page_A": draft}, r)

	result, err := c.Convert(context.Background(), "Page_A")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Status != StatusSkipped || result.Path != "" {
		t.Errorf("Result = %+v, want skipped without path", result)
	}
	if r.calledPath != "" {
		t.Error("renderer called for a draft")
	}
	if _, err := os.Stat(scratch.ArtifactPath("Page_A")); !os.IsNotExist(err) {
		t.Error("draft produced an artifact")
	}
}

func TestConverter_DraftKeptWhenNotSkipping(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SkipDrafts = false
	scratch := output.New(t.TempDir())
	fetcher := &mockFetcher{pages: map[string]string{cfg.PageURL("Page_A"): "<p>DRAFT CHEAT SHEET</p>"}}
	c, err := New(fetcher, &mockRenderer{}, scratch, cfg)
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.Convert(context.Background(), "Page_A")
	if err != nil || result.Status != StatusConverted {
		t.Errorf("Convert() = %+v, %v; want converted", result, err)
	}
}

func TestConverter_RenderFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    *mockRenderer
	}{
		{"error", &mockRenderer{err: errors.New("wkhtml crashed")}},
		{"error after partial write", &mockRenderer{err: errors.New("disk full"), partial: true}},
		{"panic", &mockRenderer{panicMsg: "nil map"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, scratch, _ := newTestConverter(t, map[string]string{"Page_A": finalPage}, tt.r)

			result, err := c.Convert(context.Background(), "Page_A")
			if err != nil {
				t.Fatalf("Convert() error = %v, render failures must not be returned", err)
			}
			if result.Status != StatusFailed || result.Path != "" {
				t.Errorf("Result = %+v, want failed without path", result)
			}
			var rf *core.RenderFailure
			if !errors.As(result.Err, &rf) || rf.Identifier != "Page_A" {
				t.Errorf("Err = %v, want *core.RenderFailure for Page_A", result.Err)
			}
			if !errors.Is(result.Err, core.ErrRender) {
				t.Error("errors.Is(Err, ErrRender) = false")
			}
			if _, err := os.Stat(scratch.ArtifactPath("Page_A")); !os.IsNotExist(err) {
				t.Error("failed render left a file claiming success")
			}
		})
	}
}

func TestConverter_FetchError(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	c, _, _ := newTestConverter(t, map[string]string{}, r)

	result, err := c.Convert(context.Background(), "Missing_Page")
	if !errors.Is(err, core.ErrFetch) {
		t.Errorf("Convert() error = %v, want ErrFetch", err)
	}
	if result.Status != StatusFailed || result.Path != "" || !errors.Is(result.Err, core.ErrFetch) {
		t.Errorf("result = %+v, want StatusFailed carrying the fetch error", result)
	}
	if r.calledPath != "" {
		t.Error("renderer called after failed fetch")
	}
}

func TestConverter_EmptyIdentifier(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{}
	c, err := New(fetcher, &mockRenderer{}, output.New(t.TempDir()), config.Default())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", "   "} {
		result, err := c.Convert(context.Background(), id)
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("Convert(%q) error = %v, want ErrInvalidArgument", id, err)
		}
		if result.Status != StatusFailed {
			t.Errorf("Convert(%q) status = %v, want failed", id, result.Status)
		}
	}
	if len(fetcher.urls) != 0 {
		t.Errorf("fetcher called for blank identifiers: %v", fetcher.urls)
	}
}

func TestConverter_KeepsConfiguredSource(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.RenderOptions = core.RenderOptions{render.OptSource: "custom", render.OptPageSize: "Letter"}
	fetcher := &mockFetcher{pages: map[string]string{cfg.PageURL("Page_A"): finalPage}}
	r := &mockRenderer{}
	c, err := New(fetcher, r, output.New(t.TempDir()), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Convert(context.Background(), "Page_A"); err != nil {
		t.Fatal(err)
	}
	if r.calledOpts[render.OptSource] != "custom" || r.calledOpts[render.OptPageSize] != "Letter" {
		t.Errorf("opts = %v", r.calledOpts)
	}
	if len(cfg.RenderOptions) != 2 {
		t.Error("config render options mutated")
	}
}

func TestIsDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		html, marker string
		want         bool
	}{
		{"<b>DRAFT CHEAT SHEET</b>", "DRAFT CHEAT SHEET", true},
		{"this is a Draft Cheat Sheet!", "DRAFT CHEAT SHEET", true},
		{"final cheat sheet", "DRAFT CHEAT SHEET", false},
		{"draft", "", false},
	}
	for _, tt := range tests {
		if got := IsDraft(tt.html, tt.marker); got != tt.want {
			t.Errorf("IsDraft(%q, %q) = %v, want %v", tt.html, tt.marker, got, tt.want)
		}
	}
}

func TestNew_InvalidRules(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Rules = append(cfg.Rules, cfg.Rules[0])
	cfg.Rules[len(cfg.Rules)-1].Action = "bogus"
	if _, err := New(&mockFetcher{}, &mockRenderer{}, output.New(filepath.Join(t.TempDir(), "w")), cfg); err == nil {
		t.Error("New() with an invalid rule should fail")
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	for s, want := range map[Status]string{StatusConverted: "converted", StatusSkipped: "skipped", StatusFailed: "failed", Status(9): "status(9)"} {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
