package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/gaurav-prasanna/cheatbook/core"
)

// Sentinel errors for browser rendering failures.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// Chrome renderer options.
const (
	OptLandscape       = "landscape"        // "true" for landscape pages
	OptPrintBackground = "print_background" // "false" to drop CSS backgrounds
)

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.5
)

// ChromeRenderer prints HTML to PDF with headless Chrome via go-rod.
// Rod downloads Chromium on first use when no browser is found.
// One browser is shared by concurrent renders; each Render opens its own tab.
type ChromeRenderer struct {
	timeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
}

// Compile-time interface check.
var _ core.Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer creates a ChromeRenderer with the given page load timeout.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *ChromeRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()
	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return browser, nil
}

// Close releases browser resources.
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// Render loads html from a temporary file and prints it to outputPath.
// Rendering is best-effort: a page whose sub-resources never finish loading is
// printed anyway.
func (r *ChromeRenderer) Render(ctx context.Context, html string, outputPath string, opts core.RenderOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpPath, cleanup, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer cleanup()

	browser, err := r.ensureBrowser()
	if err != nil {
		return err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Remote links and images may fail to resolve; that must not abort the page.
	_ = page.Timeout(r.timeout).WaitLoad()

	pdfOpts, err := buildPrintOptions(opts)
	if err != nil {
		return err
	}

	reader, err := page.PDF(pdfOpts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	out, err := os.Create(outputPath) // #nosec G304 -- scratch path
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputPath, err)
	}
	return nil
}

// buildPrintOptions maps render options onto Chrome's print settings.
func buildPrintOptions(opts core.RenderOptions) (*proto.PagePrintToPDF, error) {
	landscape, err := strconv.ParseBool(opts.Get(OptLandscape, "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s option: %w", OptLandscape, err)
	}
	background, err := strconv.ParseBool(opts.Get(OptPrintBackground, "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s option: %w", OptPrintBackground, err)
	}

	return &proto.PagePrintToPDF{
		Landscape:       landscape,
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: background,
	}, nil
}

// writeTempHTML writes html to a temporary file and returns a cleanup func.
func writeTempHTML(html string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "cheatbook-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(html); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
