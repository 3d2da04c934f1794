// Package cmd defines the command-line interface for marquee.
package cmd

import (
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(actorsCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the datasets subcommands to the parent datasets command
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsFetchCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)
	historyCmd.AddCommand(historyExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory for cached dataset downloads")
	rootCmd.PersistentFlags().String("reports-dir", contract.DefaultReportsDir, "Directory for CSV reports")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of actors to rank")
	rootCmd.PersistentFlags().Int("years", contract.DefaultYears, "Size of the trailing window in years")
	rootCmd.PersistentFlags().String("tie-break", string(schema.InputOrderTieBreak), "Order of equal credit counts: input or id")
	rootCmd.PersistentFlags().String("dataset-base-url", contract.DefaultDatasetBaseURL, "Base URL of the published datasets")
	rootCmd.PersistentFlags().String("search-base-url", contract.DefaultSearchBaseURL, "Base URL of the search API")
	rootCmd.PersistentFlags().Int("search-count", contract.DefaultSearchCount, "Posts requested per actor search")
	rootCmd.PersistentFlags().String("http-timeout", "", "Overall HTTP timeout, e.g. 30s (empty = none)")
	rootCmd.PersistentFlags().String("verify-credentials", "yes", "Verify search credentials before searching (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheClearCmd to Viper
	cacheClearCmd.Flags().Bool("all", false, "Also remove files downloaded today")
	if err := viper.BindPFlags(cacheClearCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache clear flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
