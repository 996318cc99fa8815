// Package normalize converts extracted page HTML into Markdown, the
// intermediate format the native PDF renderer lays out.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

var (
	// Section edit links survive extraction when a skin renders them inline.
	editLinkRegex = regexp.MustCompile(`\s*\\?\[edit\\?\]`)
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts a cleaned HTML fragment into Markdown. Relative links are
// resolved against baseURL when it is set.
func (n *MarkdownNormalizer) Normalize(html, baseURL string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if baseURL != "" {
		opts = append(opts, converter.WithDomain(baseURL))
	}

	markdown, err := htmltomarkdown.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}

	markdown = editLinkRegex.ReplaceAllString(markdown, "")
	markdown = blankRunRegex.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown) + "\n", nil
}
