package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig resolves the history backend settings without touching an input document.
func loadHistoryConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseHistoryBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// sqliteHistoryPath returns the SQLite file that holds the history.
func sqliteHistoryPath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return iocache.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: History subcommands skip the input document handling of sharedSetup.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the analysis run history",
	Long: `Manage the record of past analysis runs.

When --history-backend is set, every analysis stores one run row with its
configuration plus the indices of each analyzed replicate.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics and connection info
  export  - Write the history to Parquet files
  clear   - Remove all recorded runs
  migrate - Manage the history database schema

Examples:
  # Record a run in the local SQLite history
  germtrack analyze trial.yaml --history-backend sqlite

  # Check what has been recorded
  germtrack history status --history-backend sqlite`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the analysis run history.

Displays:
- Backend type and connection status
- Total number of recorded runs and replicates
- Last and oldest run timestamps
- Row counts per history table

Examples:
  # Check SQLite history
  germtrack history status --history-backend sqlite

  # Check PostgreSQL history (set connection string via env variable)
  GERMTRACK_HISTORY_BACKEND=postgresql GERMTRACK_HISTORY_DB_CONNECT="..." germtrack history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", iocache.ErrNoHistory)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to Parquet files",
	Long: `Write the recorded runs and replicate indices to two Parquet files.

Given --output-file history, the command writes:
- history.analysis_runs.parquet
- history.replicate_parameters.parquet

Undefined indices are written as nulls.

Examples:
  # Export the local SQLite history
  germtrack history export --history-backend sqlite --output-file history`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded analysis runs",
	Long: `Delete all recorded runs from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Clear SQLite history
  germtrack history clear --history-backend sqlite

  # Clear MySQL history (set connection string via env variable)
  GERMTRACK_HISTORY_BACKEND=mysql GERMTRACK_HISTORY_DB_CONNECT="..." germtrack history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadHistoryConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqliteHistoryPath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd manages database schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage history database schema migrations",
	Long: `Apply or roll back the schema migrations of the history database.

By default the schema is migrated to the latest version. Use --target-version
to move to a specific version, or 0 to roll back everything.

Examples:
  # Migrate the SQLite history to the latest schema
  germtrack history migrate --history-backend sqlite

  # Roll back the PostgreSQL history schema
  germtrack history migrate --history-backend postgresql --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadHistoryConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate history", err)
		}
	},
}
