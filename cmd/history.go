package cmd

import (
	"fmt"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/iocache"
	"github.com/huangsam/marquee/internal/outwriter"
	"github.com/huangsam/marquee/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig reads only the settings history commands need.
// It avoids full validation so a broken ranking config never blocks maintenance.
func loadHistoryConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.LogFormat = viper.GetString("log-format")
	cfg.UseColors = true
	initLogger()
	return nil
}

// historySetup loads history config and opens the store.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyMaintenanceSetup loads history config without opening the store,
// so clearing and migrating work on missing or broken schemas.
func historyMaintenanceSetup(_ *cobra.Command, _ []string) error {
	return loadHistoryConfig()
}

// historySQLitePath returns the SQLite file for history maintenance.
func historySQLitePath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return iocache.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the report run history",
	Long: `Manage the optional history of report runs.

When --history-backend is sqlite, mysql or postgresql, every report run records its
start and end time, final status, the ranked actors and the outcome of each search.

Subcommands:
  status  - Show run counts, timestamps, table sizes and schema version
  clear   - Remove all recorded history
  migrate - Apply or roll back schema migrations
  export  - Export the history to Parquet files`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics",
	Args:    cobra.NoArgs,
	PreRunE: historySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get history status: %w", err)
		}
		if err := outwriter.NewOutWriter().WriteHistoryStatus(status, cfg); err != nil {
			return fmt.Errorf("failed to print history status: %w", err)
		}
		return nil
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all recorded runs from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables and the migration ledger`,
	Args:    cobra.NoArgs,
	PreRunE: historyMaintenanceSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ClearHistory(cfg.HistoryBackend, historySQLitePath(), cfg.HistoryDBConnect); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("History cleared successfully.")
		return nil
	},
}

// historyMigrateCmd runs schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply run history schema migrations",
	Long: `Migrate the run history schema to the latest or a specific version.

Examples:
  # Migrate to the latest schema
  marquee history migrate --history-backend sqlite

  # Roll back everything
  marquee history migrate --history-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: historyMaintenanceSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = historySQLitePath()
		}
		if err := iocache.MigrateHistory(cfg.HistoryBackend, connStr, viper.GetInt("target-version")); err != nil {
			return fmt.Errorf("failed to migrate history: %w", err)
		}
		return nil
	},
}

// historyExportCmd exports the run history.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet files",
	Long: `Write runs, ranked actors and searches to three Parquet files named
<output-file>.runs.parquet, <output-file>.ranked_actors.parquet and
<output-file>.searches.parquet.

Examples:
  marquee history export --history-backend sqlite --output-file history`,
	Args:    cobra.NoArgs,
	PreRunE: historySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		return nil
	},
}
