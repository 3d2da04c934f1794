package cmd

import (
	"fmt"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd focused on dataset cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the dated dataset cache",
	Long: `Manage the downloaded datasets under the data directory.

Each dataset is downloaded at most once per day and stored as
<data-dir>/<YYYYMMDD>-<name>.tsv.gz. Older copies are never read again.

Subcommands:
  status - Show cached files, their dates and sizes
  clear  - Remove stale copies (or everything with --all)

Examples:
  # Check cache status
  marquee cache status

  # Reclaim space from previous days
  marquee cache clear`,
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display cached datasets",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := dataset.CacheStatus(cfg.DataDir, contract.SystemClock{})
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		if err := outwriter.NewOutWriter().WriteCacheStatus(status, cfg); err != nil {
			return fmt.Errorf("failed to print cache status: %w", err)
		}
		return nil
	},
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached datasets",
	Long: `Delete cached dataset files from previous days and interrupted downloads.

With --all, today's files are removed too and the next run downloads everything again.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		removed, err := dataset.ClearCache(cfg.DataDir, contract.SystemClock{}, viper.GetBool("all"))
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Removed %d cached file(s) from %s.\n", removed, cfg.DataDir)
		return nil
	},
}
