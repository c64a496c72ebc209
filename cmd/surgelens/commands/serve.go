package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luwen/surgelens/internal/api"
	"github.com/luwen/surgelens/internal/api/handlers"
	"github.com/luwen/surgelens/internal/scheduler"
	"github.com/luwen/surgelens/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server exposing the analysis operations.

Endpoints:
  GET  /health            - Health check
  POST /api/v1/analyze    - Full single-stock analysis
  POST /api/v1/surges     - Surge event summary
  POST /api/v1/compare    - Multi-stock comparison
  POST /api/v1/batch      - Preset leaderboard
  GET  /api/v1/presets    - Configured presets

Example:
  go run ./cmd/surgelens serve
  go run ./cmd/surgelens serve --port 8087 --warm-cache`,
	RunE: runServe,
}

var (
	servePort string
	warmCache bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
	serveCmd.Flags().BoolVar(&warmCache, "warm-cache", false, "run the preset cache warming scheduler alongside the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()

	if servePort != "" {
		app.cfg.Port = servePort
	}

	handler := handlers.NewAnalysisHandler(app.orchestrator, app.log)
	server := api.New(app.cfg, app.log, api.NewRouter(handler, app.log))

	var sched *scheduler.Scheduler
	if warmCache {
		sched = scheduler.New(app.log)
		job := jobs.NewWarmCacheJob(app.source, app.strategy, "", app.log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule cache warming: %w", err)
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		app.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
