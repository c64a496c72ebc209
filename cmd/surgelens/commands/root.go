package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	days         int
	asJSON       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "surgelens",
	Short: "surgelens - A-share surge analysis engine",
	Long: `surgelens CLI

Daily-bar technical analysis for mainland A-shares: indicator battery,
surge event detection, composite scoring and risk classification.

Usage:
  go run ./cmd/surgelens [command]

Examples:
  go run ./cmd/surgelens analyze 600519
  go run ./cmd/surgelens surges 300750 --threshold 6
  go run ./cmd/surgelens compare 600519 000858 --days 90
  go run ./cmd/surgelens batch --preset tech
  go run ./cmd/surgelens serve`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default is built-in parameters)")
	rootCmd.PersistentFlags().IntVar(&days, "days", 0, "calendar window in days (default from strategy config)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print full JSON instead of the text summary")
}
