// Package pipeline drives a book build: reset the scratch directory, extract
// the listing, convert every page, merge the artifacts in listing order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/config"
	"github.com/gaurav-prasanna/cheatbook/core/convert"
	"github.com/gaurav-prasanna/cheatbook/core/output"
	"github.com/gaurav-prasanna/cheatbook/core/report"
)

// State is a pipeline stage.
type State int

const (
	StateInit State = iota
	StateListing
	StateConverting
	StateAssembling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateListing:
		return "listing"
	case StateConverting:
		return "converting"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Lister produces the ordered page identifiers.
type Lister interface {
	Extract(ctx context.Context) ([]string, error)
}

// PageConverter converts one identifier.
type PageConverter interface {
	Convert(ctx context.Context, id string) (convert.Result, error)
}

// PageCounter is optionally implemented by the Merger to size the book.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Summary is the outcome of a run. Output is empty when nothing was merged.
type Summary struct {
	State       State
	Identifiers []string
	Results     []convert.Result
	Converted   int
	Skipped     int
	Failed      int
	Output      string
	Pages       int
	Manifest    string
}

// Artifacts returns the converted PDF paths in listing order.
func (s Summary) Artifacts() []string {
	paths := []string{}
	for _, r := range s.Results {
		if r.Status == convert.StatusConverted {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// Driver runs the pipeline once per Run call.
type Driver struct {
	lister    Lister
	converter PageConverter
	merger    core.Merger
	scratch   *output.Scratch
	reporter  report.Reporter
	cfg       config.Config
	now       func() time.Time
}

// New creates a Driver. A nil reporter discards progress.
func New(lister Lister, converter PageConverter, merger core.Merger, scratch *output.Scratch, reporter report.Reporter, cfg config.Config) *Driver {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Driver{
		lister:    lister,
		converter: converter,
		merger:    merger,
		scratch:   scratch,
		reporter:  reporter,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run executes Init → Listing → Converting → Assembling → Done.
// Listing, scratch and merge errors are fatal; per-page failures are recorded
// in the summary and the manifest and never abort the run.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	summary := Summary{State: StateInit}
	manifest := output.NewManifest(d.now())

	d.reporter.Stage("Initialization...")
	if err := d.scratch.Reset(); err != nil {
		summary.State = StateFailed
		return summary, err
	}

	summary.State = StateListing
	d.reporter.Stage("Extract the list of all pages...")
	ids, err := d.lister.Extract(ctx)
	if err != nil {
		summary.State = StateFailed
		d.writeManifest(manifest, &summary)
		return summary, fmt.Errorf("extracting listing: %w", err)
	}
	summary.Identifiers = ids
	d.reporter.Info(fmt.Sprintf("%d found.", len(ids)))

	summary.State = StateConverting
	d.reporter.Stage("Convert each page to a PDF file...")
	summary.Results = d.convertAll(ctx, ids)
	for _, r := range summary.Results {
		switch r.Status {
		case convert.StatusConverted:
			summary.Converted++
		case convert.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	d.writeManifest(manifest, &summary)

	summary.State = StateAssembling
	d.reporter.Stage("Merge all PDF files to a single one...")
	paths := summary.Artifacts()
	if len(paths) == 0 {
		summary.State = StateDone
		d.writeManifest(manifest, &summary)
		d.reporter.Warn("There is no PDF file to merge!")
		return summary, nil
	}

	if err := d.merger.Merge(paths, d.cfg.OutputFile); err != nil {
		summary.State = StateFailed
		d.writeManifest(manifest, &summary)
		if !errors.Is(err, core.ErrMerge) {
			err = &core.MergeError{Output: d.cfg.OutputFile, Err: err}
		}
		return summary, err
	}
	summary.Output = d.cfg.OutputFile
	if pc, ok := d.merger.(PageCounter); ok {
		if n, err := pc.PageCount(summary.Output); err == nil {
			summary.Pages = n
		}
	}

	summary.State = StateDone
	d.writeManifest(manifest, &summary)
	d.reporter.Success(fmt.Sprintf("Book generated in file '%s' (%d converted, %d skipped, %d failed)",
		summary.Output, summary.Converted, summary.Skipped, summary.Failed))
	return summary, nil
}

// convertAll converts ids with at most cfg.Concurrency conversions in flight.
// Results are stored by listing index, so completion order never leaks into
// the book.
func (d *Driver) convertAll(ctx context.Context, ids []string) []convert.Result {
	results := make([]convert.Result, len(ids))
	total := len(ids)
	var done atomic.Int64

	finish := func(i int, r convert.Result) {
		results[i] = r
		n := int(done.Add(1))
		d.reporter.Item(n, total, r.Identifier, r.Status.String(), r.Err)
	}

	var g errgroup.Group
	g.SetLimit(max(d.cfg.Concurrency, 1))

	for i, id := range ids {
		// Go blocks while the limit is reached, so cancellation is seen
		// before each new item starts.
		if err := ctx.Err(); err != nil {
			finish(i, convert.Result{Identifier: id, Status: convert.StatusFailed, Err: err})
			continue
		}
		g.Go(func() error {
			r, err := d.converter.Convert(ctx, id)
			if err != nil {
				r = convert.Result{Identifier: id, Status: convert.StatusFailed, Err: err, Duration: r.Duration}
			}
			finish(i, r)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// writeManifest records the current summary; failures are reported, not fatal.
func (d *Driver) writeManifest(m *output.Manifest, s *Summary) {
	m.State = s.State.String()
	m.Output = s.Output
	m.Pages = s.Pages
	m.Entries = m.Entries[:0]
	for _, r := range s.Results {
		entry := output.ManifestEntry{Identifier: r.Identifier, Status: r.Status.String(), Path: r.Path}
		if r.Err != nil {
			entry.Reason = r.Err.Error()
		}
		m.Entries = append(m.Entries, entry)
	}
	if s.State == StateDone || s.State == StateFailed {
		finished := d.now().UTC()
		m.FinishedAt = &finished
	}

	path, err := d.scratch.WriteManifest(m)
	if err != nil {
		d.reporter.Warn(fmt.Sprintf("could not write manifest: %v", err))
		return
	}
	s.Manifest = path
}
