package surge

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

func defaultDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(strategy.Default().Surge, logger.Nop())
	require.NoError(t, err)
	return d
}

// seriesFromReturns builds a series from daily percentage returns and
// per-day volumes. Day 0 closes at 100.
func seriesFromReturns(returns []float64, volumes []int64) *contracts.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, len(returns)+1)
	price := 100.0
	for i := range bars {
		if i > 0 {
			price *= 1 + returns[i-1]/100
		}
		vol := int64(1000)
		if volumes != nil {
			vol = volumes[i]
		}
		bars[i] = contracts.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: price, High: price * 1.01, Low: price * 0.99, Close: price,
			Volume: vol,
		}
	}
	return &contracts.PriceSeries{Symbol: "test", Bars: bars}
}

func TestNewDetector_InvalidThreshold(t *testing.T) {
	cfg := strategy.Default().Surge
	cfg.Threshold = 0

	_, err := NewDetector(cfg, logger.Nop())
	require.Error(t, err)

	var confErr *contracts.ConfigurationError
	assert.True(t, errors.As(err, &confErr))

	cfg.Threshold = -2.5
	_, err = NewDetector(cfg, logger.Nop())
	assert.Error(t, err)
}

func TestDetect_NoEvents(t *testing.T) {
	returns := make([]float64, 60)
	for i := range returns {
		returns[i] = 0.4 // quiet drift, well under threshold
	}

	events := defaultDetector(t).Detect(seriesFromReturns(returns, nil))
	assert.Empty(t, events)
}

func TestDetect_SingleDaySpikeWithVolumeConfirmation(t *testing.T) {
	// 200 ascending bars; bar 150 closes 9% above bar 149 on 2x volume.
	returns := make([]float64, 199)
	volumes := make([]int64, 200)
	for i := range returns {
		returns[i] = 0.1
	}
	for i := range volumes {
		volumes[i] = 1000
	}
	returns[149] = 9.0 // bar index 150
	volumes[150] = 2000

	series := seriesFromReturns(returns, volumes)
	events := defaultDetector(t).Detect(series)

	require.Len(t, events, 1)
	ev := events[0]
	assert.True(t, ev.Start.Equal(series.Bars[150].Date))
	assert.True(t, ev.End.Equal(series.Bars[150].Date))
	assert.Equal(t, 1, ev.Days)
	assert.InDelta(t, 9.0, ev.CumulativeGain, 0.01)
	assert.InDelta(t, 9.0, ev.PeakDailyGain, 0.01)
	assert.True(t, ev.VolumeConfirmed)
	assert.InDelta(t, 2.0, ev.VolumeRatio, 0.01)
	assert.Equal(t, contracts.SurgeSpike, ev.Class)
}

func TestDetect_AdjacentTriggersMerge(t *testing.T) {
	returns := make([]float64, 40)
	returns[19] = 6.0 // bar 20
	returns[20] = 6.0 // bar 21

	events := defaultDetector(t).Detect(seriesFromReturns(returns, nil))

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, 2, ev.Days)
	assert.InDelta(t, 12.36, ev.CumulativeGain, 0.01)
	assert.InDelta(t, 6.0, ev.PeakDailyGain, 0.01)
	assert.Equal(t, contracts.SurgeSpike, ev.Class)
}

func TestDetect_SustainedEventWithLookback(t *testing.T) {
	cfg := strategy.Default().Surge
	cfg.Lookback = 3
	d, err := NewDetector(cfg, logger.Nop())
	require.NoError(t, err)

	// Three consecutive +2% days: no single day triggers, the 3-day
	// cumulative return (~6.1%) does.
	returns := make([]float64, 40)
	returns[9] = 2.0  // bar 10
	returns[10] = 2.0 // bar 11
	returns[11] = 2.0 // bar 12

	series := seriesFromReturns(returns, nil)
	events := d.Detect(series)

	require.Len(t, events, 1)
	ev := events[0]
	assert.True(t, ev.Start.Equal(series.Bars[10].Date))
	assert.True(t, ev.End.Equal(series.Bars[12].Date))
	assert.Equal(t, 3, ev.Days)
	assert.InDelta(t, 6.12, ev.CumulativeGain, 0.01)
	assert.Equal(t, contracts.SurgeSustained, ev.Class)
	assert.False(t, ev.VolumeConfirmed, "flat volume must not confirm")
}

func TestDetect_Deterministic(t *testing.T) {
	returns := make([]float64, 120)
	for i := range returns {
		returns[i] = float64((i*7)%5) - 1.5
	}
	returns[30] = 7.0
	returns[31] = 6.0
	returns[80] = 5.5

	series := seriesFromReturns(returns, nil)
	d := defaultDetector(t)

	first := d.Detect(series)
	second := d.Detect(series)

	assert.True(t, reflect.DeepEqual(first, second), "detector must be deterministic")
}

func TestDetect_EventsNeverOverlap(t *testing.T) {
	returns := make([]float64, 100)
	returns[10] = 6.0
	returns[11] = 5.5
	returns[40] = 8.0
	returns[70] = 5.1
	returns[71] = -2.0
	returns[72] = 6.5

	events := defaultDetector(t).Detect(seriesFromReturns(returns, nil))
	require.NotEmpty(t, events)

	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].End.Before(events[i].Start),
			"event %d overlaps event %d", i-1, i)
	}
	for _, ev := range events {
		assert.False(t, ev.End.Before(ev.Start))
		assert.GreaterOrEqual(t, ev.CumulativeGain, 5.0,
			"every event must meet the threshold")
	}
}

func TestDetect_LookbackWindowsStayDisjoint(t *testing.T) {
	// Two separated +6% days on a mild drift. Wider lookbacks produce
	// cumulative trigger windows reaching back across the first spike;
	// the merged result must stay pairwise disjoint regardless.
	returns := make([]float64, 29)
	for i := range returns {
		returns[i] = 0.2
	}
	returns[1] = 6.0 // bar 2
	returns[4] = 6.0 // bar 5
	series := seriesFromReturns(returns, nil)

	for _, lookback := range []int{1, 3, 5} {
		cfg := strategy.Default().Surge
		cfg.Lookback = lookback
		d, err := NewDetector(cfg, logger.Nop())
		require.NoError(t, err)

		events := d.Detect(series)
		require.NotEmpty(t, events, "lookback %d", lookback)

		for i := 1; i < len(events); i++ {
			assert.True(t, events[i-1].End.Before(events[i].Start),
				"lookback %d: event %d overlaps event %d", lookback, i-1, i)
		}
		for _, ev := range events {
			assert.GreaterOrEqual(t, ev.CumulativeGain, cfg.Threshold,
				"lookback %d: every event must meet the threshold", lookback)
		}
	}
}

func TestDetect_WideLookbackFoldsAcrossEarlierEvent(t *testing.T) {
	cfg := strategy.Default().Surge
	cfg.Lookback = 5
	d, err := NewDetector(cfg, logger.Nop())
	require.NoError(t, err)

	// The 5-day cumulative window at bar 6 starts at bar 2, reaching
	// back into the spike that already stands as its own event; both
	// must collapse into a single span.
	returns := make([]float64, 29)
	for i := range returns {
		returns[i] = 0.2
	}
	returns[1] = 6.0 // bar 2
	returns[4] = 6.0 // bar 5
	series := seriesFromReturns(returns, nil)

	events := d.Detect(series)

	require.Len(t, events, 1)
	ev := events[0]
	assert.True(t, ev.Start.Equal(series.Bars[2].Date))
	assert.True(t, ev.End.Equal(series.Bars[9].Date))
	assert.Equal(t, 8, ev.Days)
	assert.InDelta(t, 13.72, ev.CumulativeGain, 0.05)
	assert.Equal(t, contracts.SurgeSustained, ev.Class)
}

func TestDetect_TooShortSeries(t *testing.T) {
	series := seriesFromReturns(nil, nil) // single bar
	assert.Empty(t, defaultDetector(t).Detect(series))
}
