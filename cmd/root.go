// Package cmd implements the CLI commands for cheatbook using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cheatbook/core/config"
)

// Flag variables.
var (
	flagConfig        string
	flagOutput        string
	flagScratch       string
	flagListingURL    string
	flagRenderer      string
	flagConcurrency   int
	flagIncludeDrafts bool
)

var rootCmd = &cobra.Command{
	Use:   "cheatbook",
	Short: "cheatbook — build a single PDF book from a wiki cheat sheet collection",
	Long: `cheatbook scrapes the OWASP Cheat Sheet category (or any MediaWiki category),
converts every page to PDF and merges the pages, in listing order, into one book.

Examples:
  cheatbook
  cheatbook --output book.pdf --concurrency 4
  cheatbook --renderer chrome
  cheatbook list`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBuild,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file overriding the built-in defaults")
	pf.StringVar(&flagListingURL, "listing-url", "", "Category listing URL")
	pf.StringVar(&flagScratch, "scratch", "", "Scratch directory for per-page PDFs (default work)")
	pf.StringVar(&flagRenderer, "renderer", "", "PDF backend: native or chrome (default native)")
	pf.BoolVar(&flagIncludeDrafts, "include-drafts", false, "Convert pages marked as draft")

	f := rootCmd.Flags()
	f.StringVarP(&flagOutput, "output", "o", "", "Output book file (default owasp-cs-book.pdf)")
	f.IntVarP(&flagConcurrency, "concurrency", "c", 0, "Pages converted in parallel (default 1)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, the optional config file and flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	// Only flags the user actually set override the config.
	flags := cmd.Flags()
	if flags.Changed("listing-url") {
		cfg.ListingURL = flagListingURL
	}
	if flags.Changed("output") {
		cfg.OutputFile = flagOutput
	}
	if flags.Changed("scratch") {
		cfg.ScratchDir = flagScratch
	}
	if flags.Changed("renderer") {
		cfg.Renderer = flagRenderer
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if flags.Changed("include-drafts") {
		cfg.SkipDrafts = !flagIncludeDrafts
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
