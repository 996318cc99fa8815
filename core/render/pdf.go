// Package render provides the HTML to PDF backends used by the page converter.
//
// The native backend needs no external program: it extracts the article body,
// converts it to Markdown and lays it out with gofpdf. Images are not rendered.
package render

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/extract"
	"github.com/gaurav-prasanna/cheatbook/core/normalize"
)

// Native renderer options.
const (
	OptPageSize    = "page_size"   // A4 (default), Letter, Legal
	OptOrientation = "orientation" // portrait (default), landscape
	OptSource      = "source"      // printed under the title when set
)

var pageSizes = map[string]string{
	"a4":     "A4",
	"letter": "Letter",
	"legal":  "Legal",
}

var (
	numberedItemRegex = regexp.MustCompile(`^\d+\.\s`)
	italicRegex       = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex   = regexp.MustCompile("`([^`]+)`")
	inlineLinkRegex   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// NativeRenderer renders page HTML as a PDF document with gofpdf.
type NativeRenderer struct {
	extractor  *extract.HTMLExtractor
	normalizer *normalize.MarkdownNormalizer
}

// Compile-time interface check.
var _ core.Renderer = (*NativeRenderer)(nil)

// NewNativeRenderer creates a NativeRenderer.
func NewNativeRenderer() *NativeRenderer {
	return &NativeRenderer{
		extractor:  extract.New(),
		normalizer: normalize.New(),
	}
}

// Render converts html into a PDF written to outputPath.
func (r *NativeRenderer) Render(ctx context.Context, html string, outputPath string, opts core.RenderOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	size, ok := pageSizes[strings.ToLower(opts.Get(OptPageSize, "a4"))]
	if !ok {
		return fmt.Errorf("unsupported %s %q", OptPageSize, opts[OptPageSize])
	}
	orientation := "P"
	switch strings.ToLower(opts.Get(OptOrientation, "portrait")) {
	case "portrait":
	case "landscape":
		orientation = "L"
	default:
		return fmt.Errorf("unsupported %s %q", OptOrientation, opts[OptOrientation])
	}

	content, err := r.extractor.Extract(html)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	markdown, err := r.normalizer.Normalize(content, siteRoot(opts.Get(OptSource, "")))
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	pdf := gofpdf.New(orientation, "mm", size, "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if title := extract.Title(html); title != "" {
		pdf.SetTitle(title, true)
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(title), "", "L", false)
		pdf.Ln(4)
	}

	if source := opts.Get(OptSource, ""); source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+source), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	writeMarkdown(pdf, tr, markdown)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("writing PDF %s: %w", outputPath, err)
	}
	return nil
}

// siteRoot reduces a page URL to scheme and host so relative wiki links can be
// made absolute.
func siteRoot(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// writeMarkdown lays out Markdown line by line: headings, lists, code blocks
// and paragraphs.
func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, markdown string) {
	inCodeBlock := false

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			pdf.Ln(3)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			renderHeading(pdf, tr(cleanInlineMarkdown(strings.TrimLeft(line, "# "))), level)
			continue
		}

		pdf.SetFont("Helvetica", "", 10)
		switch {
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)
		case numberedItemRegex.MatchString(trimmed):
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		default:
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "L", false)
		}
	}
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = inlineLinkRegex.ReplaceAllString(text, "$1")
	// html-to-markdown escapes punctuation that would otherwise be Markdown.
	text = strings.NewReplacer(`\*`, "*", `\_`, "_", `\#`, "#", `\-`, "-", `\.`, ".", `\[`, "[", `\]`, "]").Replace(text)
	return strings.TrimSpace(text)
}
