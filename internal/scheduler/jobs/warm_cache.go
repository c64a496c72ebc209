package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/luwen/surgelens/internal/datasource"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// WarmCacheJob pre-fetches the daily series of every preset symbol so
// interactive calls during the session hit the cache instead of the
// provider.
type WarmCacheJob struct {
	source   datasource.Source
	cfg      *strategy.Config
	schedule string
	logger   *logger.Logger
}

// DefaultWarmSchedule runs before the mainland session opens,
// weekdays at 08:30.
const DefaultWarmSchedule = "0 30 8 * * MON-FRI"

// NewWarmCacheJob creates the cache warming job. An empty schedule
// falls back to the default.
func NewWarmCacheJob(source datasource.Source, cfg *strategy.Config, schedule string, log *logger.Logger) *WarmCacheJob {
	if schedule == "" {
		schedule = DefaultWarmSchedule
	}
	return &WarmCacheJob{
		source:   source,
		cfg:      cfg,
		schedule: schedule,
		logger:   log.WithField("job", "warm_cache"),
	}
}

// Name implements scheduler.Job.
func (j *WarmCacheJob) Name() string { return "warm_cache" }

// Schedule implements scheduler.Job.
func (j *WarmCacheJob) Schedule() string { return j.schedule }

// Run fetches every distinct preset symbol once over the default
// window. Individual fetch failures are logged and counted; the job
// fails only when nothing could be warmed.
func (j *WarmCacheJob) Run(ctx context.Context) error {
	symbols := j.distinctSymbols()
	if len(symbols) == 0 {
		return nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -j.cfg.DefaultDays)

	warmed, failed := 0, 0
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := j.source.FetchSeries(ctx, symbol, from, to); err != nil {
			failed++
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Warmup fetch failed")
			continue
		}
		warmed++
	}

	j.logger.WithFields(map[string]interface{}{
		"warmed": warmed,
		"failed": failed,
	}).Info("Cache warmup completed")

	if warmed == 0 {
		return fmt.Errorf("cache warmup: all %d symbols failed", failed)
	}
	return nil
}

func (j *WarmCacheJob) distinctSymbols() []string {
	seen := make(map[string]bool)
	for _, refs := range j.cfg.Presets {
		for _, ref := range refs {
			if ref.Symbol != "" {
				seen[ref.Symbol] = true
			}
		}
	}

	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
