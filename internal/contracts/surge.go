package contracts

import "time"

// SurgeClass tags how a surge unfolded.
type SurgeClass string

const (
	SurgeSpike     SurgeClass = "spike"     // spans at most 2 days
	SurgeSustained SurgeClass = "sustained" // longer run-ups
)

// SurgeEvent is one contiguous date range where cumulative or
// single-day gain met the configured threshold. End >= Start.
type SurgeEvent struct {
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	Days            int        `json:"days"` // trading days in the span
	CumulativeGain  float64    `json:"cumulative_gain"`  // percent over the span
	PeakDailyGain   float64    `json:"peak_daily_gain"`  // best single day in the span
	VolumeConfirmed bool       `json:"volume_confirmed"` // span volume vs trailing baseline
	VolumeRatio     float64    `json:"volume_ratio"`
	Class           SurgeClass `json:"class"`
}

// FrequencyRating is an ordered label for how often a symbol surges.
type FrequencyRating string

const (
	FrequencyLow      FrequencyRating = "low"
	FrequencyMedium   FrequencyRating = "medium"
	FrequencyHigh     FrequencyRating = "high"
	FrequencyVeryHigh FrequencyRating = "very_high"
)

// RateFrequency maps a surge count onto the rating scale used by the
// surge summary: >=10 very high, >=5 high, >=2 medium, else low.
func RateFrequency(count int) FrequencyRating {
	switch {
	case count >= 10:
		return FrequencyVeryHigh
	case count >= 5:
		return FrequencyHigh
	case count >= 2:
		return FrequencyMedium
	default:
		return FrequencyLow
	}
}

// SurgeStats aggregates an event sequence.
type SurgeStats struct {
	Count          int             `json:"count"`
	ConfirmedCount int             `json:"confirmed_count"`
	MaxGain        float64         `json:"max_gain"`
	MaxDailyGain   float64         `json:"max_daily_gain"`
	LastEvent      *SurgeEvent     `json:"last_event,omitempty"`
	Frequency      FrequencyRating `json:"frequency"`
}

// CollectSurgeStats computes summary statistics over an ordered event
// sequence (earliest first).
func CollectSurgeStats(events []SurgeEvent) SurgeStats {
	stats := SurgeStats{Count: len(events), Frequency: RateFrequency(len(events))}
	for i := range events {
		ev := events[i]
		if ev.VolumeConfirmed {
			stats.ConfirmedCount++
		}
		if ev.CumulativeGain > stats.MaxGain {
			stats.MaxGain = ev.CumulativeGain
		}
		if ev.PeakDailyGain > stats.MaxDailyGain {
			stats.MaxDailyGain = ev.PeakDailyGain
		}
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		stats.LastEvent = &last
	}
	return stats
}

// SurgeSummary is the payload of the surge-summary operation.
type SurgeSummary struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name,omitempty"`
	Threshold   float64      `json:"threshold"`
	WindowDays  int          `json:"window_days"`
	LastClose   float64      `json:"last_close"`
	TotalReturn float64      `json:"total_return"`
	Events      []SurgeEvent `json:"events"`
	Stats       SurgeStats   `json:"stats"`
}
