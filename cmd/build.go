// Package cmd — build command.
// The default command orchestrates the pipeline:
// reset scratch → list → convert each page → merge.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cheatbook/core/assemble"
	"github.com/gaurav-prasanna/cheatbook/core/config"
	"github.com/gaurav-prasanna/cheatbook/core/convert"
	"github.com/gaurav-prasanna/cheatbook/core/fetch"
	"github.com/gaurav-prasanna/cheatbook/core/output"
	"github.com/gaurav-prasanna/cheatbook/core/pipeline"
	"github.com/gaurav-prasanna/cheatbook/core/render"
	"github.com/gaurav-prasanna/cheatbook/core/report"
	"github.com/gaurav-prasanna/cheatbook/crawl"
)

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, closeRenderer, err := newDriver(cfg, report.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer closeRenderer()

	summary, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	if summary.Manifest != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Manifest: %s\n", summary.Manifest)
	}
	return nil
}

// newDriver wires the pipeline components for cfg.
func newDriver(cfg config.Config, reporter report.Reporter) (*pipeline.Driver, func(), error) {
	fetcher := fetch.New(fetch.WithTimeout(cfg.FetchTimeout), fetch.WithUserAgent(cfg.UserAgent))

	renderer, closer, err := render.New(cfg.Renderer, cfg.RenderTimeout)
	if err != nil {
		return nil, nil, err
	}
	closeRenderer := func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing renderer: %v\n", err)
		}
	}

	scratch := output.New(cfg.ScratchDir)
	converter, err := convert.New(fetcher, renderer, scratch, cfg)
	if err != nil {
		closeRenderer()
		return nil, nil, fmt.Errorf("initializing converter: %w", err)
	}

	lister := crawl.NewLister(fetcher, cfg)
	return pipeline.New(lister, converter, assemble.New(), scratch, reporter, cfg), closeRenderer, nil
}
