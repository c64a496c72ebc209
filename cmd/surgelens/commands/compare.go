package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luwen/surgelens/internal/strategy"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare SYMBOL SYMBOL [SYMBOL...]",
	Short: "Compare several stocks over a shared window",
	Long: `Analyzes each symbol over the overlapping date range and prints the
relative-strength ranking.

Example:
  go run ./cmd/surgelens compare 600519 000858
  go run ./cmd/surgelens compare 600519 000858 600036 --days 90`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	refs := make([]strategy.StockRef, len(args))
	for i, symbol := range args {
		refs[i] = strategy.StockRef{Symbol: symbol}
	}

	result, err := app.orchestrator.Compare(cmd.Context(), refs, days)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Printf("window %s .. %s\n\n", result.From.Format("2006-01-02"), result.To.Format("2006-01-02"))
	for _, entry := range result.Ranking {
		label := entry.Name
		if label == "" {
			label = entry.Symbol
		}
		fmt.Printf("  #%d %-24s score %5.1f  risk %-9s  surges %d\n",
			entry.Rank, fmt.Sprintf("%s(%s)", label, entry.Symbol),
			entry.Score, entry.Risk, entry.SurgeCount)
	}
	for _, f := range result.Failures {
		fmt.Printf("  !! %s failed at %s: %s\n", f.Symbol, f.Stage, f.Reason)
	}
	return nil
}
