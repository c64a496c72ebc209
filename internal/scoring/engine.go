package scoring

import (
	"math"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// Engine maps an indicator snapshot plus the surge event sequence onto
// a composite 0-100 score and an ordered risk class.
//
// Each signal is normalized to 0-100 with 50 as the neutral point;
// undefined indicators stay neutral rather than punishing short series.
// The composite is the configured weighted sum. Monotonicity holds by
// construction: pushing RSI past the overbought boundary only ever
// subtracts, and confirmed surges only ever add (until the cap).
type Engine struct {
	cfg    strategy.ScoringConfig
	risk   strategy.RiskConfig
	logger *logger.Logger
}

// NewEngine creates an engine after validating the weight profile.
func NewEngine(cfg strategy.ScoringConfig, risk strategy.RiskConfig, log *logger.Logger) (*Engine, error) {
	if math.Abs(cfg.Weights.Sum()-1.0) > 0.01 {
		return nil, &contracts.ConfigurationError{
			Field:  "scoring.weights",
			Reason: "must sum to 1.0",
		}
	}
	if !(risk.MediumAbove < risk.HighAbove && risk.HighAbove < risk.VeryHighAbove) {
		return nil, &contracts.ConfigurationError{
			Field:  "risk",
			Reason: "band boundaries must be strictly increasing",
		}
	}
	return &Engine{
		cfg:    cfg,
		risk:   risk,
		logger: log.WithField("module", "scoring"),
	}, nil
}

// Score produces the composite score, its per-signal breakdown and the
// risk classification for one security.
func (e *Engine) Score(snap contracts.IndicatorSnapshot, events []contracts.SurgeEvent) (float64, contracts.ScoreBreakdown, contracts.RiskClass) {
	stats := contracts.CollectSurgeStats(events)

	breakdown := contracts.ScoreBreakdown{
		Momentum:   e.momentumScore(snap),
		Oscillator: e.oscillatorScore(snap),
		Volatility: e.volatilityScore(snap),
		Surge:      e.surgeScore(stats),
	}

	w := e.cfg.Weights
	score := clamp(breakdown.Momentum*w.Momentum +
		breakdown.Oscillator*w.Oscillator +
		breakdown.Volatility*w.Volatility +
		breakdown.Surge*w.Surge)

	risk := e.classifyRisk(breakdown, stats)

	e.logger.WithFields(map[string]interface{}{
		"momentum":   breakdown.Momentum,
		"oscillator": breakdown.Oscillator,
		"volatility": breakdown.Volatility,
		"surge":      breakdown.Surge,
		"score":      score,
		"risk":       risk,
	}).Debug("Scored security")

	return score, breakdown, risk
}

// momentumScore maps the MACD histogram, normalized by price so the
// signal is scale-free across securities, onto 0-100.
func (e *Engine) momentumScore(snap contracts.IndicatorSnapshot) float64 {
	if !snap.MACDHistogram.Defined || snap.LastClose <= 0 {
		return 50
	}
	norm := snap.MACDHistogram.Value / snap.LastClose
	return clamp(50 + 50*math.Tanh(norm*40))
}

// oscillatorScore starts neutral and applies overbought penalties and
// oversold credit from RSI and the KDJ J line.
func (e *Engine) oscillatorScore(snap contracts.IndicatorSnapshot) float64 {
	score := 50.0

	if snap.RSI.Defined {
		rsi := snap.RSI.Value
		switch {
		case rsi > e.cfg.RSIOverbought:
			score -= (rsi - e.cfg.RSIOverbought) / (100 - e.cfg.RSIOverbought) * 40
		case rsi < e.cfg.RSIOversold:
			score += (e.cfg.RSIOversold - rsi) / e.cfg.RSIOversold * 25
		}
	}

	if snap.KDJJ.Defined && snap.KDJJ.Value > e.cfg.KDJOverbought {
		penalty := (snap.KDJJ.Value - e.cfg.KDJOverbought) * 0.5
		score -= math.Min(penalty, 30)
	}

	return clamp(score)
}

// volatilityScore penalizes annualized realized volatility linearly.
func (e *Engine) volatilityScore(snap contracts.IndicatorSnapshot) float64 {
	if !snap.Volatility.Defined {
		return 50
	}
	return clamp(100 - snap.Volatility.Value*150)
}

// surgeScore credits confirmed surges fully, unconfirmed ones half,
// plus the best span gain, capped at 100.
func (e *Engine) surgeScore(stats contracts.SurgeStats) float64 {
	unconfirmed := stats.Count - stats.ConfirmedCount
	score := float64(stats.ConfirmedCount)*e.cfg.SurgeBonusPerEvent +
		float64(unconfirmed)*e.cfg.SurgeBonusPerEvent/2 +
		math.Min(stats.MaxGain, 20)
	return clamp(score)
}

// classifyRisk blends the volatility penalty with surge overheat into
// a 0-100 risk index and bands it with the configured boundaries.
func (e *Engine) classifyRisk(breakdown contracts.ScoreBreakdown, stats contracts.SurgeStats) contracts.RiskClass {
	overheat := math.Min(float64(stats.Count)*10+stats.MaxDailyGain, 100)
	index := 0.7*(100-breakdown.Volatility) + 0.3*overheat

	switch {
	case index >= e.risk.VeryHighAbove:
		return contracts.RiskVeryHigh
	case index >= e.risk.HighAbove:
		return contracts.RiskHigh
	case index >= e.risk.MediumAbove:
		return contracts.RiskMedium
	default:
		return contracts.RiskLow
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
