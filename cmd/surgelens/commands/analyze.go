package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Run the full analysis pipeline for one stock",
	Long: `Fetches the daily series, computes the indicator battery, detects
surge events, scores the stock and prints the report.

Example:
  go run ./cmd/surgelens analyze 600519
  go run ./cmd/surgelens analyze 000858 --days 90 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeName string

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "display name for the symbol")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	report, err := app.orchestrator.Analyze(cmd.Context(), args[0], analyzeName, days)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(report)
	}

	fmt.Println(report.Summary)
	fmt.Printf("\nscore breakdown: momentum %.1f | oscillator %.1f | volatility %.1f | surge %.1f\n",
		report.Breakdown.Momentum, report.Breakdown.Oscillator,
		report.Breakdown.Volatility, report.Breakdown.Surge)
	if report.Company.Industry != "" {
		fmt.Printf("industry: %s", report.Company.Industry)
		if report.Company.MarketCap != "" {
			fmt.Printf("  market cap: %s", report.Company.MarketCap)
		}
		fmt.Println()
	}
	return nil
}
