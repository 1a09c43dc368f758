// Package cmd defines the command-line interface for releaseflow.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ehuang2/releaseflow/internal/contract"
	"github.com/ehuang2/releaseflow/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(retroCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("repo", "", "Repository slug as owner/repo (default: detect from origin remote)")
	rootCmd.PersistentFlags().IntP("days", "d", contract.DefaultLookbackDays, "Days to look back for release trains")
	rootCmd.PersistentFlags().Int("trend-cycles", contract.DefaultTrendCycles, "Number of releases in the trend table")
	rootCmd.PersistentFlags().Int("large-lines", contract.DefaultLargeLines, "Changed-line threshold for the large-PR flag")
	rootCmd.PersistentFlags().Float64("quick-minutes", float64(contract.DefaultQuickMinutes), "Approval-latency threshold in minutes for the quick-approval flag")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Colorize labels: yes or no")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: .releaseflow.yaml)")

	// Bind Cobra flags to Viper
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}
