package contracts

import (
	"strings"
	"testing"
)

func TestRateFrequency(t *testing.T) {
	tests := []struct {
		count int
		want  FrequencyRating
	}{
		{0, FrequencyLow},
		{1, FrequencyLow},
		{2, FrequencyMedium},
		{4, FrequencyMedium},
		{5, FrequencyHigh},
		{9, FrequencyHigh},
		{10, FrequencyVeryHigh},
		{25, FrequencyVeryHigh},
	}

	for _, tt := range tests {
		if got := RateFrequency(tt.count); got != tt.want {
			t.Errorf("RateFrequency(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestCollectSurgeStats(t *testing.T) {
	events := []SurgeEvent{
		{Start: day(10), End: day(10), Days: 1, CumulativeGain: 6.2, PeakDailyGain: 6.2, VolumeConfirmed: true, Class: SurgeSpike},
		{Start: day(20), End: day(23), Days: 4, CumulativeGain: 12.5, PeakDailyGain: 7.1, VolumeConfirmed: false, Class: SurgeSustained},
	}

	stats := CollectSurgeStats(events)

	if stats.Count != 2 {
		t.Errorf("Count = %d, want 2", stats.Count)
	}
	if stats.ConfirmedCount != 1 {
		t.Errorf("ConfirmedCount = %d, want 1", stats.ConfirmedCount)
	}
	if stats.MaxGain != 12.5 {
		t.Errorf("MaxGain = %v, want 12.5", stats.MaxGain)
	}
	if stats.MaxDailyGain != 7.1 {
		t.Errorf("MaxDailyGain = %v, want 7.1", stats.MaxDailyGain)
	}
	if stats.LastEvent == nil || !stats.LastEvent.Start.Equal(day(20)) {
		t.Error("LastEvent should be the latest event")
	}
	if stats.Frequency != FrequencyMedium {
		t.Errorf("Frequency = %v, want medium", stats.Frequency)
	}
}

func TestCollectSurgeStats_Empty(t *testing.T) {
	stats := CollectSurgeStats(nil)
	if stats.Count != 0 || stats.LastEvent != nil {
		t.Errorf("empty stats = %+v, want zero values", stats)
	}
	if stats.Frequency != FrequencyLow {
		t.Errorf("Frequency = %v, want low", stats.Frequency)
	}
}

func TestRiskClass_Rank(t *testing.T) {
	order := []RiskClass{RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("expected %v to rank below %v", order[i-1], order[i])
		}
	}
}

func TestAnalysisReport_RenderSummary(t *testing.T) {
	report := &AnalysisReport{
		Symbol:      "600519",
		Name:        "Kweichow Moutai",
		WindowDays:  120,
		LastClose:   1700.5,
		TotalReturn: 8.4,
		SurgeStats:  SurgeStats{Count: 3, ConfirmedCount: 2, MaxGain: 9.1, Frequency: FrequencyMedium},
		Snapshot: IndicatorSnapshot{
			RSI:        IndicatorValue{Value: 61.2, Defined: true},
			Volatility: IndicatorValue{Value: 0.32, Defined: true},
		},
		Score: 71.3,
		Risk:  RiskMedium,
	}

	summary := report.RenderSummary()

	for _, want := range []string{"Kweichow Moutai", "600519", "3 surge events", "RSI 61.2", "71.3", "medium"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q: %s", want, summary)
		}
	}
}
