package contracts

import (
	"fmt"
	"strings"
	"time"
)

// RiskClass is an ordered risk category.
type RiskClass string

const (
	RiskLow      RiskClass = "low"
	RiskMedium   RiskClass = "medium"
	RiskHigh     RiskClass = "high"
	RiskVeryHigh RiskClass = "very_high"
)

// Rank returns the position of the class on the ordered scale,
// lower meaning less risky. Unknown classes sort last.
func (r RiskClass) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskVeryHigh:
		return 3
	default:
		return 4
	}
}

// ScoreBreakdown carries the normalized per-signal scores (0-100 each)
// behind a composite score.
type ScoreBreakdown struct {
	Momentum   float64 `json:"momentum"`
	Oscillator float64 `json:"oscillator"`
	Volatility float64 `json:"volatility"`
	Surge      float64 `json:"surge"`
}

// CompanyProfile is optional provider-sourced metadata attached to a
// report. Missing data degrades to an empty profile, never an error.
type CompanyProfile struct {
	Industry  string `json:"industry,omitempty"`
	MarketCap string `json:"market_cap,omitempty"`
}

// AnalysisReport is the single-symbol result of one orchestration run.
// Immutable once assembled; not persisted beyond the call.
type AnalysisReport struct {
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name,omitempty"`
	WindowDays  int               `json:"window_days"` // trading days actually analyzed
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	LastClose   float64           `json:"last_close"`
	TotalReturn float64           `json:"total_return"`
	Snapshot    IndicatorSnapshot `json:"snapshot"`
	Events      []SurgeEvent      `json:"events"`
	SurgeStats  SurgeStats        `json:"surge_stats"`
	Score       float64           `json:"score"` // composite, 0-100
	Breakdown   ScoreBreakdown    `json:"breakdown"`
	Risk        RiskClass         `json:"risk"`
	Company     CompanyProfile    `json:"company"`
	Summary     string            `json:"summary"`
}

// DisplayName returns the name when known, otherwise the symbol.
func (r *AnalysisReport) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Symbol
}

// RenderSummary fills the narrative template from computed values.
func (r *AnalysisReport) RenderSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s): %d trading days, last close %.2f, period return %+.2f%%. ",
		r.DisplayName(), r.Symbol, r.WindowDays, r.LastClose, r.TotalReturn)
	if r.SurgeStats.Count == 0 {
		b.WriteString("No surge events in the window. ")
	} else {
		fmt.Fprintf(&b, "%d surge events (%d volume-confirmed), best span %+.2f%%, surge frequency %s. ",
			r.SurgeStats.Count, r.SurgeStats.ConfirmedCount, r.SurgeStats.MaxGain, r.SurgeStats.Frequency)
	}
	if r.Snapshot.RSI.Defined {
		fmt.Fprintf(&b, "RSI %.1f. ", r.Snapshot.RSI.Value)
	}
	if r.Snapshot.Volatility.Defined {
		fmt.Fprintf(&b, "Annualized volatility %.1f%%. ", r.Snapshot.Volatility.Value*100)
	}
	fmt.Fprintf(&b, "Composite score %.1f, risk %s.", r.Score, r.Risk)
	return b.String()
}

// RankingEntry is one row of a comparison ranking or leaderboard.
type RankingEntry struct {
	Rank       int       `json:"rank"` // 1-based
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name,omitempty"`
	Score      float64   `json:"score"`
	Risk       RiskClass `json:"risk"`
	SurgeCount int       `json:"surge_count"`
	Summary    string    `json:"summary,omitempty"`
}

// PairwiseDelta is the relative-strength difference between two symbols
// over the aligned comparison window.
type PairwiseDelta struct {
	SymbolA        string  `json:"symbol_a"`
	SymbolB        string  `json:"symbol_b"`
	ScoreDelta     float64 `json:"score_delta"`      // score A - score B
	SurgeFreqDelta int     `json:"surge_freq_delta"` // surge count A - B
	ReturnDelta    float64 `json:"return_delta"`     // total return A - B
}

// ComparisonResult aligns multiple reports on a shared window.
type ComparisonResult struct {
	From     time.Time         `json:"from"` // overlapping date range
	To       time.Time         `json:"to"`
	Reports  []*AnalysisReport `json:"reports"`
	Ranking  []RankingEntry    `json:"ranking"`
	Deltas   []PairwiseDelta   `json:"deltas"`
	Failures []SymbolFailure   `json:"failures,omitempty"`
}

// LeaderboardStats summarizes a batch run.
type LeaderboardStats struct {
	Analyzed       int     `json:"analyzed"`
	Failed         int     `json:"failed"`
	AvgReturn      float64 `json:"avg_return"`
	TotalSurges    int     `json:"total_surges"`
	SurgesPerStock float64 `json:"surges_per_stock"`
}

// Leaderboard is the result of a batch ranking run.
type Leaderboard struct {
	Preset      string           `json:"preset"`
	GeneratedAt time.Time        `json:"generated_at"`
	Entries     []RankingEntry   `json:"entries"`
	Stats       LeaderboardStats `json:"stats"`
	Failures    []SymbolFailure  `json:"failures,omitempty"`
}
