package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/huangsam/marquee/core"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/iocache"
	"github.com/huangsam/marquee/internal/logger"
	"github.com/huangsam/marquee/internal/outwriter"
	"github.com/huangsam/marquee/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute replaces it with one
// that is canceled on SIGINT.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global run history manager instance.
var historyManager contract.HistoryManager

// rootCmd runs the full report pipeline when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Rank the busiest movie actors and collect what people post about them.",
	Long: `Marquee downloads the public IMDb datasets, ranks the actors and actresses with the
most movie credits over the trailing years, and writes a CSV report of recent
social-media posts for each of them.

Running marquee without a subcommand performs one full report run:
  1. Fetch title.basics, title.principals and name.basics (cached per day)
  2. Rank the top actors and write <reports-dir>/<timestamp>-ActorsWithMostMovies.csv
  3. Authenticate against the search API
  4. Search each actor and write <reports-dir>/<timestamp>-<Name>.csv when posts exist

Credentials come from MARQUEE_CONSUMER_KEY, MARQUEE_CONSUMER_SECRET,
MARQUEE_ACCESS_KEY and MARQUEE_ACCESS_SECRET.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Args:               cobra.NoArgs,
	PreRunE:            sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		start := time.Now()
		clock := contract.SystemClock{}
		var history contract.HistoryStore
		if historyManager != nil {
			history = historyManager.GetHistoryStore()
		}
		summary, err := core.ExecuteReport(rootCtx, cfg, core.Pipeline{
			Fetcher:  newFetcher(cfg, clock),
			Searcher: newSearcher(cfg),
			Writer:   outwriter.NewReportWriter(cfg.ReportsDir, clock),
			Clock:    clock,
			History:  history,
		})
		if err != nil {
			return fmt.Errorf("report run failed: %w", err)
		}
		if err := outwriter.NewOutWriter().WriteReportSummary(summary, cfg, time.Since(start)); err != nil {
			return fmt.Errorf("cannot print report summary: %w", err)
		}
		return nil
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("MARQUEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Credentials accept the legacy variable names as fallbacks
	credentialEnvs := [][]string{
		{"consumer-key", "MARQUEE_CONSUMER_KEY", "tw_consumer_key"},
		{"consumer-secret", "MARQUEE_CONSUMER_SECRET", "tw_consumer_secret"},
		{"access-key", "MARQUEE_ACCESS_KEY", "tw_key"},
		{"access-secret", "MARQUEE_ACCESS_SECRET", "tw_secret"},
	}
	for _, env := range credentialEnvs {
		if err := viper.BindEnv(env...); err != nil {
			contract.LogFatal("Error binding credential env", err)
		}
	}

	// Set defaults in Viper
	viper.SetDefault("data-dir", contract.DefaultDataDir)
	viper.SetDefault("reports-dir", contract.DefaultReportsDir)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("years", contract.DefaultYears)
	viper.SetDefault("tie-break", string(schema.InputOrderTieBreak))
	viper.SetDefault("dataset-base-url", contract.DefaultDatasetBaseURL)
	viper.SetDefault("search-base-url", contract.DefaultSearchBaseURL)
	viper.SetDefault("search-count", contract.DefaultSearchCount)
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("history-backend", string(schema.NoneBackend))
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("verify-credentials", "yes")
}

// initLogger configures the root logger from validated settings.
func initLogger() {
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		NoColor: !cfg.UseColors,
	})
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	initLogger()

	// 4. Initialize persistence layer with validated config
	if err := iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".marquee") // Name of config file (without extension)
		viper.SetConfigType("yaml")     // We'll use YAML format
		viper.AddConfigPath(".")        // Look in the current directory
		viper.AddConfigPath("$HOME")    // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command. SIGINT cancels in-flight downloads and searches.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCtx = ctx
	return rootCmd.Execute()
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
