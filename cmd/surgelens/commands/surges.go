package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// surgesCmd represents the surges command
var surgesCmd = &cobra.Command{
	Use:   "surges SYMBOL",
	Short: "List surge events for one stock",
	Long: `Detects surge events in the window and prints each event with its
span, cumulative gain and volume confirmation.

Example:
  go run ./cmd/surgelens surges 300750
  go run ./cmd/surgelens surges 600519 --threshold 6 --days 90`,
	Args: cobra.ExactArgs(1),
	RunE: runSurges,
}

var (
	surgesName      string
	surgesThreshold float64
)

func init() {
	rootCmd.AddCommand(surgesCmd)

	surgesCmd.Flags().StringVar(&surgesName, "name", "", "display name for the symbol")
	surgesCmd.Flags().Float64Var(&surgesThreshold, "threshold", 0, "surge threshold in percent (overrides strategy config)")
}

func runSurges(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	summary, err := app.orchestrator.SurgeReport(cmd.Context(), args[0], surgesName, days, surgesThreshold)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(summary)
	}

	label := summary.Name
	if label == "" {
		label = summary.Symbol
	}
	fmt.Printf("%s(%s): %d surge events >= %.1f%% over %d trading days (frequency %s)\n",
		label, summary.Symbol, summary.Stats.Count, summary.Threshold,
		summary.WindowDays, summary.Stats.Frequency)

	for _, ev := range summary.Events {
		confirmed := " "
		if ev.VolumeConfirmed {
			confirmed = fmt.Sprintf(" volume x%.1f", ev.VolumeRatio)
		}
		fmt.Printf("  %s .. %s  %2dd  %+.2f%% (peak %+.2f%%)  %s%s\n",
			ev.Start.Format("2006-01-02"), ev.End.Format("2006-01-02"),
			ev.Days, ev.CumulativeGain, ev.PeakDailyGain, ev.Class, confirmed)
	}
	return nil
}
