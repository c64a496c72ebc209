package surge

import (
	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// Detector scans a price series for surge events. Deterministic:
// identical input and configuration always yield the same sequence.
type Detector struct {
	cfg    strategy.SurgeConfig
	logger *logger.Logger
}

// NewDetector creates a detector after validating its configuration.
func NewDetector(cfg strategy.SurgeConfig, log *logger.Logger) (*Detector, error) {
	if cfg.Threshold <= 0 {
		return nil, &contracts.ConfigurationError{Field: "surge.threshold", Reason: "must be > 0"}
	}
	if cfg.Lookback < 1 {
		return nil, &contracts.ConfigurationError{Field: "surge.lookback", Reason: "must be >= 1"}
	}
	if cfg.VolumeBaselineWindow <= 0 {
		return nil, &contracts.ConfigurationError{Field: "surge.volume_baseline_window", Reason: "must be > 0"}
	}
	if cfg.VolumeConfirmMultiple <= 1 {
		return nil, &contracts.ConfigurationError{Field: "surge.volume_confirm_multiple", Reason: "must be > 1"}
	}
	return &Detector{
		cfg:    cfg,
		logger: log.WithField("module", "surge"),
	}, nil
}

// triggerWindow is the bar-index span claimed by one trigger day.
type triggerWindow struct {
	start, end int
}

// Detect returns the ordered surge event sequence, earliest first.
// A series without surges yields an empty sequence, not an error.
//
// Each day is a trigger when its single-day return meets the
// threshold, or when the trailing Lookback-day cumulative return does.
// A single-day trigger claims just that day; a cumulative-only trigger
// claims its whole lookback span. Overlapping or adjacent claims merge
// into one event; merged spans are trimmed of non-gaining edge days
// and kept only while the span gain still meets the threshold.
func (d *Detector) Detect(series *contracts.PriceSeries) []contracts.SurgeEvent {
	bars := series.Bars
	if len(bars) < 2 {
		return []contracts.SurgeEvent{}
	}

	windows := d.collectTriggers(bars)
	merged := mergeWindows(windows)

	events := make([]contracts.SurgeEvent, 0, len(merged))
	for _, w := range merged {
		if ev, ok := d.buildEvent(bars, w); ok {
			events = append(events, ev)
		}
	}

	d.logger.WithFields(map[string]interface{}{
		"symbol":    series.Symbol,
		"bars":      len(bars),
		"threshold": d.cfg.Threshold,
		"events":    len(events),
	}).Debug("Surge detection completed")

	return events
}

func (d *Detector) collectTriggers(bars []contracts.PriceBar) []triggerWindow {
	k := d.cfg.Lookback
	var windows []triggerWindow

	for i := 1; i < len(bars); i++ {
		if dailyGain(bars, i) >= d.cfg.Threshold {
			windows = append(windows, triggerWindow{start: i, end: i})
			continue
		}
		if k > 1 && i >= k {
			cum := (bars[i].Close/bars[i-k].Close - 1) * 100
			if cum >= d.cfg.Threshold {
				windows = append(windows, triggerWindow{start: i - k + 1, end: i})
			}
		}
	}
	return windows
}

// mergeWindows folds overlapping or adjacent (gap <= 1 day) windows.
// Input is ordered by end; output is ordered and pairwise disjoint.
func mergeWindows(windows []triggerWindow) []triggerWindow {
	var merged []triggerWindow
	for _, w := range windows {
		n := len(merged)
		if n == 0 || w.start > merged[n-1].end+1 {
			merged = append(merged, w)
			continue
		}
		if w.end > merged[n-1].end {
			merged[n-1].end = w.end
		}
		if w.start < merged[n-1].start {
			merged[n-1].start = w.start
		}
		// A cumulative-lookback window can lower the last start far
		// enough to reach earlier, already-separate windows; fold them
		// back in until the tail is disjoint again.
		for len(merged) > 1 && merged[len(merged)-1].start <= merged[len(merged)-2].end+1 {
			last := merged[len(merged)-1]
			merged = merged[:len(merged)-1]
			tail := &merged[len(merged)-1]
			if last.start < tail.start {
				tail.start = last.start
			}
			if last.end > tail.end {
				tail.end = last.end
			}
		}
	}
	return merged
}

func (d *Detector) buildEvent(bars []contracts.PriceBar, w triggerWindow) (contracts.SurgeEvent, bool) {
	// Trim edge days that did not gain; they never contribute.
	start, end := w.start, w.end
	for start < end && dailyGain(bars, start) <= 0 {
		start++
	}
	for end > start && dailyGain(bars, end) <= 0 {
		end--
	}

	cum := (bars[end].Close/bars[start-1].Close - 1) * 100
	if cum < d.cfg.Threshold {
		return contracts.SurgeEvent{}, false
	}

	peak := dailyGain(bars, start)
	for i := start + 1; i <= end; i++ {
		if g := dailyGain(bars, i); g > peak {
			peak = g
		}
	}

	days := end - start + 1
	confirmed, ratio := d.volumeConfirmation(bars, start, end)

	class := contracts.SurgeSustained
	if days <= d.cfg.SpikeMaxDays {
		class = contracts.SurgeSpike
	}

	return contracts.SurgeEvent{
		Start:           bars[start].Date,
		End:             bars[end].Date,
		Days:            days,
		CumulativeGain:  cum,
		PeakDailyGain:   peak,
		VolumeConfirmed: confirmed,
		VolumeRatio:     ratio,
		Class:           class,
	}, true
}

// volumeConfirmation compares the event-span average volume against
// the trailing baseline average before the event. Events with no
// preceding bars stay unconfirmed.
func (d *Detector) volumeConfirmation(bars []contracts.PriceBar, start, end int) (bool, float64) {
	baselineFrom := start - d.cfg.VolumeBaselineWindow
	if baselineFrom < 0 {
		baselineFrom = 0
	}
	if baselineFrom == start {
		return false, 0
	}

	var baseline float64
	for i := baselineFrom; i < start; i++ {
		baseline += float64(bars[i].Volume)
	}
	baseline /= float64(start - baselineFrom)
	if baseline == 0 {
		return false, 0
	}

	var span float64
	for i := start; i <= end; i++ {
		span += float64(bars[i].Volume)
	}
	span /= float64(end - start + 1)

	ratio := span / baseline
	return ratio >= d.cfg.VolumeConfirmMultiple, ratio
}

func dailyGain(bars []contracts.PriceBar, i int) float64 {
	return (bars[i].Close/bars[i-1].Close - 1) * 100
}
