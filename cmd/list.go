package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/cheatbook/core/fetch"
	"github.com/gaurav-prasanna/cheatbook/crawl"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the page identifiers a build would convert",
	Long: `List fetches the category listing and prints one identifier per line,
in listing order, after the exclusion set has been applied.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fetcher := fetch.New(fetch.WithTimeout(cfg.FetchTimeout), fetch.WithUserAgent(cfg.UserAgent))
	ids, err := crawl.NewLister(fetcher, cfg).Extract(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}
