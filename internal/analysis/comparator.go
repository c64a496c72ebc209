package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
)

// fetchOutcome is one symbol's fetch result in a comparison fan-out.
type fetchOutcome struct {
	ref     strategy.StockRef
	series  *contracts.PriceSeries
	name    string
	failure *contracts.SymbolFailure
}

// Compare analyzes several symbols over a shared window and ranks them.
// Per-symbol failures are collected, not propagated; the call fails only
// when fewer than two symbols remain usable.
func (o *Orchestrator) Compare(ctx context.Context, refs []strategy.StockRef, days int) (*contracts.ComparisonResult, error) {
	refs = dedupeRefs(refs)
	if len(refs) < 2 {
		return nil, &contracts.InsufficientSymbolsError{Provided: len(refs), Usable: len(refs)}
	}

	from, to, _ := o.window(days)
	outcomes := o.fetchAll(ctx, refs, from, to)

	var failures []contracts.SymbolFailure
	var fetched []fetchOutcome
	for _, out := range outcomes {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		fetched = append(fetched, out)
	}

	// Align every survivor on the overlapping date range so scores and
	// returns are comparable.
	alignedFrom, alignedTo := overlapWindow(fetched)

	var reports []*contracts.AnalysisReport
	for _, out := range fetched {
		trimmed := trimSeries(out.series, alignedFrom, alignedTo)
		report, err := o.analyzeSeries(trimmed, out.name)
		if err != nil {
			failures = append(failures, failureFor(out.ref.Symbol, out.name, err))
			continue
		}
		reports = append(reports, report)
	}

	if len(reports) < 2 {
		return nil, &contracts.InsufficientSymbolsError{Provided: len(refs), Usable: len(reports)}
	}

	ranking := rankReports(reports)

	o.logger.WithFields(map[string]interface{}{
		"symbols": len(refs),
		"ranked":  len(ranking),
		"failed":  len(failures),
	}).Info("Comparison completed")

	return &contracts.ComparisonResult{
		From:     alignedFrom,
		To:       alignedTo,
		Reports:  reports,
		Ranking:  ranking,
		Deltas:   pairwiseDeltas(reports, ranking),
		Failures: failures,
	}, nil
}

// fetchAll fans symbol fetches out over the configured worker count,
// preserving input order in the result.
func (o *Orchestrator) fetchAll(ctx context.Context, refs []strategy.StockRef, from, to time.Time) []fetchOutcome {
	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	type job struct {
		idx int
		ref strategy.StockRef
	}
	jobCh := make(chan job, len(refs))
	outcomes := make([]fetchOutcome, len(refs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				outcomes[j.idx] = o.fetchOne(ctx, j.ref, from, to)
			}
		}()
	}

	for i, ref := range refs {
		jobCh <- job{idx: i, ref: ref}
	}
	close(jobCh)
	wg.Wait()

	return outcomes
}

func (o *Orchestrator) fetchOne(ctx context.Context, ref strategy.StockRef, from, to time.Time) fetchOutcome {
	out := fetchOutcome{ref: ref, name: ref.Name}

	result, err := o.source.FetchSeries(ctx, ref.Symbol, from, to)
	if err != nil {
		f := failureFor(ref.Symbol, ref.Name, err)
		out.failure = &f
		return out
	}

	out.series = result.Series
	if out.name == "" {
		out.name = result.Name
	}
	return out
}

func dedupeRefs(refs []strategy.StockRef) []strategy.StockRef {
	seen := make(map[string]bool, len(refs))
	out := refs[:0:0]
	for _, ref := range refs {
		if ref.Symbol == "" || seen[ref.Symbol] {
			continue
		}
		seen[ref.Symbol] = true
		out = append(out, ref)
	}
	return out
}

// overlapWindow returns the latest first-bar date and the earliest
// last-bar date across the fetched series.
func overlapWindow(fetched []fetchOutcome) (time.Time, time.Time) {
	var from, to time.Time
	for i, out := range fetched {
		first := out.series.First().Date
		last := out.series.Last().Date
		if i == 0 {
			from, to = first, last
			continue
		}
		if first.After(from) {
			from = first
		}
		if last.Before(to) {
			to = last
		}
	}
	return from, to
}

// trimSeries keeps only the bars inside [from, to].
func trimSeries(series *contracts.PriceSeries, from, to time.Time) *contracts.PriceSeries {
	bars := make([]contracts.PriceBar, 0, len(series.Bars))
	for _, bar := range series.Bars {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		bars = append(bars, bar)
	}
	return &contracts.PriceSeries{Symbol: series.Symbol, Bars: bars}
}

// rankReports orders by score descending, then lower risk first, then
// symbol ascending, so rankings are total and input-order independent.
func rankReports(reports []*contracts.AnalysisReport) []contracts.RankingEntry {
	sorted := make([]*contracts.AnalysisReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Risk.Rank() != b.Risk.Rank() {
			return a.Risk.Rank() < b.Risk.Rank()
		}
		return a.Symbol < b.Symbol
	})

	entries := make([]contracts.RankingEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = contracts.RankingEntry{
			Rank:       i + 1,
			Symbol:     r.Symbol,
			Name:       r.Name,
			Score:      r.Score,
			Risk:       r.Risk,
			SurgeCount: r.SurgeStats.Count,
		}
	}
	return entries
}

// pairwiseDeltas emits one delta per unordered pair, with A the
// higher-ranked symbol.
func pairwiseDeltas(reports []*contracts.AnalysisReport, ranking []contracts.RankingEntry) []contracts.PairwiseDelta {
	bySymbol := make(map[string]*contracts.AnalysisReport, len(reports))
	for _, r := range reports {
		bySymbol[r.Symbol] = r
	}

	var deltas []contracts.PairwiseDelta
	for i := 0; i < len(ranking); i++ {
		for j := i + 1; j < len(ranking); j++ {
			a := bySymbol[ranking[i].Symbol]
			b := bySymbol[ranking[j].Symbol]
			deltas = append(deltas, contracts.PairwiseDelta{
				SymbolA:        a.Symbol,
				SymbolB:        b.Symbol,
				ScoreDelta:     a.Score - b.Score,
				SurgeFreqDelta: a.SurgeStats.Count - b.SurgeStats.Count,
				ReturnDelta:    a.TotalReturn - b.TotalReturn,
			})
		}
	}
	return deltas
}
