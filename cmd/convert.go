// Package cmd — convert command.
// Converts the named pages into the scratch directory without merging:
// fetch → draft check → sanitize → render.
//
// Existing artifacts are kept, so a failed page can be retried on its own.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cheatbook/core/convert"
	"github.com/gaurav-prasanna/cheatbook/core/fetch"
	"github.com/gaurav-prasanna/cheatbook/core/output"
	"github.com/gaurav-prasanna/cheatbook/core/render"
)

var convertCmd = &cobra.Command{
	Use:   "convert <id>...",
	Short: "Convert individual pages to PDF without building the book",
	Long: `Convert fetches each named page, applies the draft check and the sanitizer
rules, and writes its PDF into the scratch directory under the same name a
full build would use. The scratch directory is not reset.

Examples:
  cheatbook convert SQL_Injection_Prevention_Cheat_Sheet
  cheatbook convert Page_A Page_B --scratch ./work --renderer chrome`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	renderer, closer, err := render.New(cfg.Renderer, cfg.RenderTimeout)
	if err != nil {
		return err
	}
	defer closer.Close()

	scratch := output.New(cfg.ScratchDir)
	if err := scratch.Ensure(); err != nil {
		return err
	}

	fetcher := fetch.New(fetch.WithTimeout(cfg.FetchTimeout), fetch.WithUserAgent(cfg.UserAgent))
	converter, err := convert.New(fetcher, renderer, scratch, cfg)
	if err != nil {
		return fmt.Errorf("initializing converter: %w", err)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var errCount int
	for i, id := range args {
		fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(args), id)

		result, err := converter.Convert(cmd.Context(), id)
		if err == nil && result.Status == convert.StatusFailed {
			err = result.Err
		}
		switch {
		case err != nil:
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
		case result.Status == convert.StatusSkipped:
			fmt.Fprintf(out, "  - Skipped: draft\n")
		default:
			fmt.Fprintf(out, "  ✓ Written: %s\n", result.Path)
		}
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d pages failed", errCount, len(args))
	}
	return nil
}
