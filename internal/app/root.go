// Package app implements the flipfinder command line interface.
package app

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flipfinder/internal/config"
	"flipfinder/pkg/logger"
)

var (
	logLevel  string
	logPretty bool

	// RootCmd is the root command for flipfinder
	RootCmd = &cobra.Command{
		Use:   "flipfinder",
		Short: "Find and rank fix-and-flip real estate deals",
		Long: `flipfinder fetches property listings from MLS and Redfin, estimates
after-repair value from comparable sales, applies repair-cost heuristics
and the 70% rule, and ranks the results by a weighted deal score.

Results can be exported to Excel, rendered as an HTML dashboard, emailed
as a digest, and are persisted to a local SQLite database for review.

Quick Start:
  1. Put credentials in a .env file or the environment (BRIGHT_MLS_*, SMTP_*)
  2. flipfinder search --area 22204 --budget 500000
  3. flipfinder history

Examples:
  # Search a ZIP code with a purchase budget
  flipfinder search --area 22204 --budget 450000

  # Require at least 25% ROI and export to Excel
  flipfinder search --area Arlington --roi 25 --export

  # Redfin only, with dashboard and email digest
  flipfinder search --area 22204 --source redfin --visualize --notify

  # Review past runs
  flipfinder history`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")
	RootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", true, "human-readable console logging")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// setup loads configuration and builds the application logger. Every
// subcommand starts here.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	log := logger.New(logger.Config{Level: level, Pretty: logPretty})
	logger.SetGlobalLogger(log)

	return cfg, log, nil
}
