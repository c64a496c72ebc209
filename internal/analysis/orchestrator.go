package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/datasource"
	"github.com/luwen/surgelens/internal/indicator"
	"github.com/luwen/surgelens/internal/scoring"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/internal/surge"
	"github.com/luwen/surgelens/pkg/logger"
)

// Orchestrator runs the full per-symbol pipeline: fetch, validate,
// indicators, surge detection, scoring, narrative. Analysis runs are
// idempotent; nothing is persisted beyond the response.
type Orchestrator struct {
	source     datasource.Source
	calculator *indicator.Calculator
	detector   *surge.Detector
	engine     *scoring.Engine
	cfg        *strategy.Config
	logger     *logger.Logger
}

// New wires the pipeline from a validated strategy config.
func New(source datasource.Source, cfg *strategy.Config, log *logger.Logger) (*Orchestrator, error) {
	if err := strategy.Validate(cfg); err != nil {
		return nil, err
	}

	detector, err := surge.NewDetector(cfg.Surge, log)
	if err != nil {
		return nil, err
	}
	engine, err := scoring.NewEngine(cfg.Scoring, cfg.Risk, log)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		source:     source,
		calculator: indicator.NewCalculator(cfg.Indicators, log),
		detector:   detector,
		engine:     engine,
		cfg:        cfg,
		logger:     log.WithField("module", "analysis"),
	}, nil
}

// Config exposes the strategy parameters the orchestrator runs with.
func (o *Orchestrator) Config() *strategy.Config { return o.cfg }

// window resolves the requested calendar-day span, falling back to the
// configured default.
func (o *Orchestrator) window(days int) (time.Time, time.Time, int) {
	if days <= 0 {
		days = o.cfg.DefaultDays
	}
	to := time.Now()
	return to.AddDate(0, 0, -days), to, days
}

// Analyze runs the whole pipeline for one symbol.
func (o *Orchestrator) Analyze(ctx context.Context, symbol, name string, days int) (*contracts.AnalysisReport, error) {
	from, to, days := o.window(days)

	result, err := o.source.FetchSeries(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = result.Name
	}

	report, err := o.analyzeSeries(result.Series, name)
	if err != nil {
		return nil, err
	}

	// Metadata is best-effort; a missing profile never fails the run.
	if profile, err := o.source.FetchProfile(ctx, symbol); err != nil {
		o.logger.WithError(err).WithField("symbol", symbol).Warn("Company profile unavailable")
	} else if profile != nil {
		report.Company = *profile
	}

	o.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"days":   days,
		"bars":   report.WindowDays,
		"score":  report.Score,
		"risk":   report.Risk,
	}).Info("Analysis completed")

	return report, nil
}

// analyzeSeries runs the compute stages on an already-fetched series.
// Used directly by the comparator after window alignment.
func (o *Orchestrator) analyzeSeries(series *contracts.PriceSeries, name string) (*contracts.AnalysisReport, error) {
	set, err := o.calculator.Calculate(series)
	if err != nil {
		return nil, err
	}

	lastClose := series.Last().Close
	snapshot := set.Snapshot(lastClose)
	events := o.detector.Detect(series)
	score, breakdown, risk := o.engine.Score(snapshot, events)

	report := &contracts.AnalysisReport{
		Symbol:      series.Symbol,
		Name:        name,
		WindowDays:  series.Len(),
		From:        series.First().Date,
		To:          series.Last().Date,
		LastClose:   lastClose,
		TotalReturn: series.TotalReturn(),
		Snapshot:    snapshot,
		Events:      events,
		SurgeStats:  contracts.CollectSurgeStats(events),
		Score:       score,
		Breakdown:   breakdown,
		Risk:        risk,
	}
	report.Summary = report.RenderSummary()
	return report, nil
}

// SurgeReport runs fetch plus surge detection only, without the
// indicator battery or scoring. A positive threshold overrides the
// configured one for this call.
func (o *Orchestrator) SurgeReport(ctx context.Context, symbol, name string, days int, threshold float64) (*contracts.SurgeSummary, error) {
	detector := o.detector
	surgeCfg := o.cfg.Surge
	if threshold > 0 && threshold != surgeCfg.Threshold {
		surgeCfg.Threshold = threshold
		d, err := surge.NewDetector(surgeCfg, o.logger)
		if err != nil {
			return nil, err
		}
		detector = d
	}

	from, to, _ := o.window(days)

	result, err := o.source.FetchSeries(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = result.Name
	}

	series := result.Series
	events := detector.Detect(series)

	return &contracts.SurgeSummary{
		Symbol:      symbol,
		Name:        name,
		Threshold:   surgeCfg.Threshold,
		WindowDays:  series.Len(),
		LastClose:   series.Last().Close,
		TotalReturn: series.TotalReturn(),
		Events:      events,
		Stats:       contracts.CollectSurgeStats(events),
	}, nil
}

// failureFor tags a per-symbol error with the pipeline stage it came
// from, for the failure lists of batch and comparison runs.
func failureFor(symbol, name string, err error) contracts.SymbolFailure {
	stage := contracts.StageScore

	var unavailable *contracts.DataUnavailableError
	var integrity *contracts.DataIntegrityError
	var insufficient *contracts.InsufficientDataError
	switch {
	case errors.As(err, &unavailable):
		stage = unavailable.Stage
	case errors.As(err, &integrity):
		stage = contracts.StageValidate
	case errors.As(err, &insufficient):
		stage = contracts.StageIndicators
	}

	return contracts.SymbolFailure{
		Symbol: symbol,
		Name:   name,
		Stage:  stage,
		Reason: err.Error(),
	}
}
