package cmd

import (
	"fmt"

	"github.com/huangsam/marquee/core"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/spf13/cobra"
)

// actorsCmd ranks actors without searching for posts.
var actorsCmd = &cobra.Command{
	Use:   "actors",
	Short: "Show the actors with the most movie credits.",
	Long: `Rank actors and actresses by movie credits over the trailing years.

Only the ranking step of a report run is performed: no report files are written
and no search credentials are needed.

Examples:
  # Top 10 over the last 10 years
  marquee actors

  # Top 25 over the last 5 years, ties ordered by person id
  marquee actors --limit 25 --years 5 --tie-break id

  # Export the ranking to Parquet
  marquee actors --output parquet --output-file actors.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		clock := contract.SystemClock{}
		if err := core.ExecuteActors(rootCtx, cfg, newFetcher(cfg, clock), clock); err != nil {
			return fmt.Errorf("cannot rank actors: %w", err)
		}
		return nil
	},
}
