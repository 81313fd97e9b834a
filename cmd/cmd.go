// Package cmd defines the command-line interface for casewatch.
package cmd

import (
	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("as-of", "", "Treat this day as today (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("baseline-start", "", "Baseline period start (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("baseline-end", "", "Baseline period end (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("current-start", "", "Current period start (ISO8601 or time ago)")
	rootCmd.PersistentFlags().String("current-end", "", "Current period end (ISO8601 or time ago)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display in table output")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("source", string(schema.CSVSource), "Event source: csv or database")
	rootCmd.PersistentFlags().String("events-file", "", "Path to the surveillance events CSV extract")
	rootCmd.PersistentFlags().String("event-backend", "", "Event store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("event-db-connect", "", "Database connection string for the event store (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("event-table", "", "Event table name (default surveillance_events)")
	rootCmd.PersistentFlags().String("rules-file", "", "Path to the threshold-rule catalog CSV")
	rootCmd.PersistentFlags().String("store-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for run tracking (must differ from event-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of monitorCmd to Viper
	monitorCmd.Flags().Bool("exceptions", false, "Show only breaches and unclassifiable days with cases")
	if err := viper.BindPFlags(monitorCmd.Flags()); err != nil {
		contract.LogFatal("Error binding monitor flags", err)
	}

	// Bind all flags of trendCmd to Viper
	trendCmd.Flags().IntP("window", "w", contract.DefaultWindow, "Rolling window size in days")
	if err := viper.BindPFlags(trendCmd.Flags()); err != nil {
		contract.LogFatal("Error binding trend flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
