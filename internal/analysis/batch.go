package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
)

// ResolvePreset looks up a named symbol list. Explicit symbols win over
// the preset when both are given.
func (o *Orchestrator) ResolvePreset(preset string, symbols []strategy.StockRef) ([]strategy.StockRef, error) {
	if len(symbols) > 0 {
		return dedupeRefs(symbols), nil
	}

	refs, ok := o.cfg.Presets[preset]
	if !ok {
		known := make([]string, 0, len(o.cfg.Presets))
		for name := range o.cfg.Presets {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, &contracts.ConfigurationError{
			Field:  "preset",
			Reason: fmt.Sprintf("unknown preset %q, have: %s", preset, strings.Join(known, ", ")),
		}
	}
	return refs, nil
}

// Batch analyzes a preset (or explicit list) concurrently and builds a
// ranked leaderboard. Individual symbol failures are collected; the
// call errors only when every symbol fails.
func (o *Orchestrator) Batch(ctx context.Context, preset string, symbols []strategy.StockRef, days int) (*contracts.Leaderboard, error) {
	refs, err := o.ResolvePreset(preset, symbols)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, &contracts.ConfigurationError{Field: "preset", Reason: "empty symbol list"}
	}

	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		report  *contracts.AnalysisReport
		failure *contracts.SymbolFailure
	}

	jobCh := make(chan strategy.StockRef, len(refs))
	outCh := make(chan outcome, len(refs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobCh {
				report, err := o.Analyze(ctx, ref.Symbol, ref.Name, days)
				if err != nil {
					f := failureFor(ref.Symbol, ref.Name, err)
					outCh <- outcome{failure: &f}
					continue
				}
				outCh <- outcome{report: report}
			}
		}()
	}

	for _, ref := range refs {
		jobCh <- ref
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(outCh)
	}()

	var reports []*contracts.AnalysisReport
	var failures []contracts.SymbolFailure
	for out := range outCh {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		reports = append(reports, out.report)
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Symbol < failures[j].Symbol })

	if len(reports) == 0 {
		return nil, &contracts.BatchFailureError{Preset: preset, Failures: failures}
	}

	entries := rankReports(reports)
	bySymbol := make(map[string]*contracts.AnalysisReport, len(reports))
	for _, r := range reports {
		bySymbol[r.Symbol] = r
	}
	for i := range entries {
		entries[i].Summary = bySymbol[entries[i].Symbol].Summary
	}

	board := &contracts.Leaderboard{
		Preset:      preset,
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
		Stats:       leaderboardStats(reports, len(failures)),
		Failures:    failures,
	}

	o.logger.WithFields(map[string]interface{}{
		"preset":   preset,
		"analyzed": board.Stats.Analyzed,
		"failed":   board.Stats.Failed,
	}).Info("Batch analysis completed")

	return board, nil
}

func leaderboardStats(reports []*contracts.AnalysisReport, failed int) contracts.LeaderboardStats {
	stats := contracts.LeaderboardStats{
		Analyzed: len(reports),
		Failed:   failed,
	}
	for _, r := range reports {
		stats.AvgReturn += r.TotalReturn
		stats.TotalSurges += r.SurgeStats.Count
	}
	stats.AvgReturn /= float64(len(reports))
	stats.SurgesPerStock = float64(stats.TotalSurges) / float64(len(reports))
	return stats
}
