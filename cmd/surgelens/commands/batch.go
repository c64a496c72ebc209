package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luwen/surgelens/internal/strategy"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [SYMBOL...]",
	Short: "Analyze a preset and print the leaderboard",
	Long: `Analyzes a preset (or an explicit symbol list) concurrently and
prints the score-ranked leaderboard.

Example:
  go run ./cmd/surgelens batch --preset popular
  go run ./cmd/surgelens batch --preset tech --days 90
  go run ./cmd/surgelens batch 600519 000858 601398`,
	RunE: runBatch,
}

var batchPreset string

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchPreset, "preset", "", "preset name from the strategy config (popular, tech, bank)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchPreset == "" && len(args) == 0 {
		return fmt.Errorf("either --preset or an explicit symbol list is required")
	}

	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	refs := make([]strategy.StockRef, len(args))
	for i, symbol := range args {
		refs[i] = strategy.StockRef{Symbol: symbol}
	}

	board, err := app.orchestrator.Batch(cmd.Context(), batchPreset, refs, days)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(board)
	}

	fmt.Printf("leaderboard %s (%d analyzed, %d failed, avg return %+.2f%%, %.1f surges/stock)\n\n",
		board.Preset, board.Stats.Analyzed, board.Stats.Failed,
		board.Stats.AvgReturn, board.Stats.SurgesPerStock)
	for _, entry := range board.Entries {
		label := entry.Name
		if label == "" {
			label = entry.Symbol
		}
		fmt.Printf("  #%d %-24s score %5.1f  risk %-9s  surges %d\n",
			entry.Rank, fmt.Sprintf("%s(%s)", label, entry.Symbol),
			entry.Score, entry.Risk, entry.SurgeCount)
	}
	for _, f := range board.Failures {
		fmt.Printf("  !! %s failed at %s: %s\n", f.Symbol, f.Stage, f.Reason)
	}
	return nil
}
