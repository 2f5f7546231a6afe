// Package cli implements the podium-summary command: load the athlete
// tables, apply a selection and print the dashboard summary as JSON.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/podium/pkg/logger"
)

// SetupLogging sends log output to stderr so stdout carries only JSON.
func SetupLogging(level string) error {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if level == "" {
		return nil
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the summary tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Podium Summary Tool
===================

Prints the athlete dashboard summary for a selection as indented JSON.

Usage:
  go run ./cmd/podium-summary [options]

Options:
  -athletes1 string
        First athlete CSV, "-" for stdin (default "data/athlete_performance_1.csv")
  -athletes2 string
        Second athlete CSV, "-" for stdin (default "data/athlete_performance_2.csv")
  -regions string
        NOC region lookup CSV, "-" for stdin (default "data/noc_regions.csv")
  -url string
        Query a running service at this base URL instead of reading files
  -sport value
        Sport to include, repeatable
  -region value
        Region to include, repeatable
  -medal value
        Medal to include (Gold, Silver, Bronze), repeatable
  -top int
        Number of top countries (default 10). With -url the server's
        top_countries is the upper bound; -top only shortens its list
  -raw int
        Also print the first N filtered records
  -policy string
        Duplicate region code policy: keep_first or strict (default "keep_first")
  -timeout duration
        HTTP request timeout when -url is set (default 30s)
  -log-level string
        Log level written to stderr (default "warn")
  -help
        Show this help message

Examples:
  # Gold medals won by swimmers
  go run ./cmd/podium-summary -sport Swimming -medal Gold

  # Two regions, with the first 20 matching rows
  go run ./cmd/podium-summary -region USA -region "Virgin Islands, US" -raw 20

  # Ask a running service
  go run ./cmd/podium-summary -url http://localhost:9080 -sport Judo
`)
}
