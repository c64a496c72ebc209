package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luwen/surgelens/internal/scheduler"
	"github.com/luwen/surgelens/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the cache warming scheduler",
	Long: `Runs the standalone scheduler that pre-fetches preset symbol series
into the cache on a cron schedule.

Example:
  go run ./cmd/surgelens scheduler
  go run ./cmd/surgelens scheduler --schedule "@hourly" --now`,
	RunE: runScheduler,
}

var (
	warmSchedule string
	warmNow      bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&warmSchedule, "schedule", "", "cron expression with seconds (default: weekdays 08:30)")
	schedulerCmd.Flags().BoolVar(&warmNow, "now", false, "also trigger one warmup immediately")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	sched := scheduler.New(app.log)
	job := jobs.NewWarmCacheJob(app.source, app.strategy, warmSchedule, app.log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("schedule cache warming: %w", err)
	}

	sched.Start()
	if warmNow {
		if err := sched.RunNow(job.Name()); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	app.log.WithField("signal", sig.String()).Info("Shutdown signal received")

	sched.Stop()
	return nil
}
