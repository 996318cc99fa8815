// Package assemble concatenates per-page PDF artifacts into the final book.
package assemble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/gaurav-prasanna/cheatbook/core"
)

// Assembler merges PDFs with pdfcpu.
type Assembler struct {
	conf *model.Configuration
}

// Compile-time interface check.
var _ core.Merger = (*Assembler)(nil)

// New creates an Assembler. Per-document outlines are not carried into the book.
func New() *Assembler {
	api.DisableConfigDir()

	conf := model.NewDefaultConfiguration()
	conf.CreateBookmarks = false
	conf.ValidationMode = model.ValidationRelaxed
	return &Assembler{conf: conf}
}

// Assemble appends the pages of every artifact, in input order, to outputPath,
// replacing any existing file. A nil list is an argument error; an empty list
// is ErrNothingToMerge and writes nothing.
func (a *Assembler) Assemble(paths []string, outputPath string) error {
	if paths == nil {
		return fmt.Errorf("%w: list of PDF files to merge cannot be nil", core.ErrInvalidArgument)
	}
	if len(paths) == 0 {
		return core.ErrNothingToMerge
	}
	if outputPath == "" {
		return fmt.Errorf("%w: output path cannot be empty", core.ErrInvalidArgument)
	}

	if err := a.merge(paths, outputPath); err != nil {
		return &core.MergeError{Output: outputPath, Err: err}
	}
	return nil
}

// merge writes the concatenation to a temporary file next to outputPath, then
// rewrites it without the document outline into outputPath. pdfcpu carries the
// first input's outline into a merge even with CreateBookmarks off.
func (a *Assembler) merge(paths []string, outputPath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".cheatbook-merge-*.pdf")
	if err != nil {
		return fmt.Errorf("creating merge file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, rmErr)
		}
	}()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing merge file: %w", err)
	}

	if err := api.MergeCreateFile(paths, tmpPath, false, a.conf); err != nil {
		return err
	}

	ctx, err := readContext(tmpPath)
	if err != nil {
		return err
	}
	if err := stripOutline(ctx); err != nil {
		return err
	}
	if err := api.WriteContextFile(ctx, outputPath); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// readContext parses the PDF at path with a fresh relaxed configuration.
func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path) // #nosec G304 -- merge output
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ctx, nil
}

// stripOutline removes the document outline from ctx, along with a page mode
// that would open the outline pane.
func stripOutline(ctx *model.Context) error {
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	root.Delete("Outlines")
	if mode := root.NameEntry("PageMode"); mode != nil && *mode == "UseOutlines" {
		root.Delete("PageMode")
	}
	return nil
}
