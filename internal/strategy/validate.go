package strategy

import (
	"fmt"
	"math"

	"github.com/luwen/surgelens/internal/contracts"
)

// Validate checks every constraint the analysis pipeline depends on.
// Violations surface as ConfigurationError and abort the call; nothing
// is silently defaulted.
func Validate(cfg *Config) error {
	// === Indicators ===
	ind := cfg.Indicators
	if ind.MAShort <= 0 {
		return confErr("indicators.ma_short", "must be > 0")
	}
	if ind.MALong <= ind.MAShort {
		return confErr("indicators.ma_long", "must be > ma_short")
	}
	if ind.MACDFast <= 0 || ind.MACDSlow <= ind.MACDFast {
		return confErr("indicators.macd_slow", "need 0 < macd_fast < macd_slow")
	}
	if ind.MACDSignal <= 0 {
		return confErr("indicators.macd_signal", "must be > 0")
	}
	if ind.RSIPeriod <= 1 {
		return confErr("indicators.rsi_period", "must be > 1")
	}
	if ind.KDJPeriod <= 0 || ind.KDJSmooth <= 0 {
		return confErr("indicators.kdj_period", "kdj windows must be > 0")
	}
	if ind.BollPeriod <= 1 {
		return confErr("indicators.boll_period", "must be > 1")
	}
	if ind.BollStdDev <= 0 {
		return confErr("indicators.boll_std_dev", "must be > 0")
	}
	if ind.VolWindow <= 1 {
		return confErr("indicators.vol_window", "must be > 1")
	}
	if ind.VolAnnualDays <= 0 {
		return confErr("indicators.vol_annual_days", "must be > 0")
	}

	// === Surge detection ===
	if cfg.Surge.Threshold <= 0 {
		return confErr("surge.threshold", "must be > 0")
	}
	if cfg.Surge.Lookback < 1 {
		return confErr("surge.lookback", "must be >= 1")
	}
	if cfg.Surge.VolumeBaselineWindow <= 0 {
		return confErr("surge.volume_baseline_window", "must be > 0")
	}
	if cfg.Surge.VolumeConfirmMultiple <= 1 {
		return confErr("surge.volume_confirm_multiple", "must be > 1")
	}
	if cfg.Surge.SpikeMaxDays < 1 {
		return confErr("surge.spike_max_days", "must be >= 1")
	}

	// === Scoring ===
	w := cfg.Scoring.Weights
	if w.Momentum < 0 || w.Oscillator < 0 || w.Volatility < 0 || w.Surge < 0 {
		return confErr("scoring.weights", "weights must be non-negative")
	}
	if math.Abs(w.Sum()-1.0) > 0.01 {
		return confErr("scoring.weights", fmt.Sprintf("must sum to 1.0, got %.3f", w.Sum()))
	}
	if cfg.Scoring.RSIOversold >= cfg.Scoring.RSIOverbought {
		return confErr("scoring.rsi_oversold", "must be below rsi_overbought")
	}
	if cfg.Scoring.RSIOverbought > 100 || cfg.Scoring.RSIOversold < 0 {
		return confErr("scoring.rsi_overbought", "RSI bounds must stay within [0, 100]")
	}
	if cfg.Scoring.SurgeBonusPerEvent <= 0 {
		return confErr("scoring.surge_bonus_per_event", "must be > 0")
	}

	// === Risk bands ===
	r := cfg.Risk
	if !(r.MediumAbove < r.HighAbove && r.HighAbove < r.VeryHighAbove) {
		return confErr("risk", "band boundaries must be strictly increasing")
	}
	if r.MediumAbove < 0 || r.VeryHighAbove > 100 {
		return confErr("risk", "band boundaries must stay within [0, 100]")
	}

	// === Presets ===
	for name, stocks := range cfg.Presets {
		if len(stocks) == 0 {
			return confErr("presets."+name, "preset must list at least one symbol")
		}
		for _, s := range stocks {
			if s.Symbol == "" {
				return confErr("presets."+name, "symbol must not be empty")
			}
		}
	}

	if cfg.DefaultDays <= 0 {
		return confErr("default_days", "must be > 0")
	}
	if cfg.Workers <= 0 {
		return confErr("workers", "must be > 0")
	}

	return nil
}

func confErr(field, reason string) error {
	return &contracts.ConfigurationError{Field: field, Reason: reason}
}
