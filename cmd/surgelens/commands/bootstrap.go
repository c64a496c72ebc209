package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/luwen/surgelens/internal/analysis"
	"github.com/luwen/surgelens/internal/datasource"
	"github.com/luwen/surgelens/internal/external/eastmoney"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/config"
	"github.com/luwen/surgelens/pkg/httputil"
	"github.com/luwen/surgelens/pkg/logger"
	"github.com/luwen/surgelens/pkg/redis"
)

// app bundles the wired collaborators every command needs.
type app struct {
	cfg          *config.Config
	strategy     *strategy.Config
	log          *logger.Logger
	redisClient  *redis.Client
	source       datasource.Source
	orchestrator *analysis.Orchestrator
}

// newApp wires config, logging, cache, provider and pipeline.
// The returned closer releases the Redis connection.
func newApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	file := strategyFile
	if file == "" {
		file = cfg.StrategyFile
	}
	strat, err := strategy.LoadOrDefault(file)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "surgelens")

	httpClient := httputil.New(log, cfg.Provider.Timeout).
		WithRetry(cfg.Provider.MaxRetries, time.Second).
		WithRateLimit(cfg.Provider.RatePerSecond)

	providerClient := eastmoney.NewClient(httpClient, log,
		cfg.Provider.KlineBaseURL, cfg.Provider.ProfileBaseURL)
	source := datasource.NewCachedSource(
		datasource.NewEastmoneySource(providerClient, log),
		cache, cfg.Provider.CacheTTL, log)

	orchestrator, err := analysis.New(source, strat, log)
	if err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("wire pipeline: %w", err)
	}

	a := &app{
		cfg:          cfg,
		strategy:     strat,
		log:          log,
		redisClient:  redisClient,
		source:       source,
		orchestrator: orchestrator,
	}
	return a, func() { redisClient.Close() }, nil
}

// printJSON writes an indented JSON payload to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
