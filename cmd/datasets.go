package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/internal/outwriter"
	"github.com/huangsam/marquee/schema"
	"github.com/spf13/cobra"
)

// datasetsCmd groups dataset resolution commands.
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect and download the published IMDb datasets",
	Long: `Resolve dataset names to download URLs and fetch them into the dated cache.

Subcommands:
  list  - Show every known dataset with its URL and whether today's copy is cached
  fetch - Download one dataset into the cache (no-op if already cached today)`,
}

// datasetsListCmd lists the known datasets.
var datasetsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List known datasets and their URLs",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		fetcher := newFetcher(cfg, contract.SystemClock{})
		infos := make([]schema.DatasetInfo, 0, len(schema.AllDatasets))
		for _, name := range schema.AllDatasets {
			url, _ := dataset.ResolveURLWithBase(cfg.DatasetBaseURL, name)
			path := fetcher.CachePath(name)
			_, err := os.Stat(path)
			infos = append(infos, schema.DatasetInfo{Name: name, URL: url, CachePath: path, Cached: err == nil})
		}
		if err := outwriter.PrintDatasetList(infos, cfg); err != nil {
			return fmt.Errorf("cannot list datasets: %w", err)
		}
		return nil
	},
}

// datasetsFetchCmd downloads a single dataset.
var datasetsFetchCmd = &cobra.Command{
	Use:   "fetch <name>",
	Short: "Download a dataset into today's cache",
	Long: `Download a dataset such as title.basics into <data-dir>/<YYYYMMDD>-<name>.tsv.gz.

A file already downloaded today is reused without touching the network.

Examples:
  marquee datasets fetch title.principals`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		name := schema.DatasetName(args[0])
		path, ok, err := newFetcher(cfg, contract.SystemClock{}).Fetch(rootCtx, name)
		if !ok {
			return fmt.Errorf("cannot fetch dataset: unknown dataset %q", name)
		}
		if err != nil {
			return fmt.Errorf("cannot fetch dataset: %w", err)
		}
		fmt.Println(path)
		return nil
	},
}
