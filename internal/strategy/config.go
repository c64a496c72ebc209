package strategy

// Config is the full set of externally adjustable analysis parameters:
// indicator windows, surge detection, scoring weights, risk bands and
// the preset catalogue.
type Config struct {
	Indicators IndicatorConfig       `yaml:"indicators" json:"indicators"`
	Surge      SurgeConfig           `yaml:"surge" json:"surge"`
	Scoring    ScoringConfig         `yaml:"scoring" json:"scoring"`
	Risk       RiskConfig            `yaml:"risk" json:"risk"`
	Presets    map[string][]StockRef `yaml:"presets" json:"presets"`
	// DefaultDays is the calendar window requested from the data source
	// when the caller does not pass one.
	DefaultDays int `yaml:"default_days" json:"default_days"`
	// Workers bounds concurrent per-symbol analyses in batch/compare runs.
	Workers int `yaml:"workers" json:"workers"`
}

// StockRef identifies a symbol with an optional display name.
type StockRef struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Name   string `yaml:"name" json:"name"`
}

// IndicatorConfig holds indicator warm-up windows and parameters.
type IndicatorConfig struct {
	MAShort    int     `yaml:"ma_short" json:"ma_short"`
	MALong     int     `yaml:"ma_long" json:"ma_long"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int     `yaml:"macd_signal" json:"macd_signal"`
	RSIPeriod  int     `yaml:"rsi_period" json:"rsi_period"`
	KDJPeriod  int     `yaml:"kdj_period" json:"kdj_period"`
	KDJSmooth  int     `yaml:"kdj_smooth" json:"kdj_smooth"`
	BollPeriod int     `yaml:"boll_period" json:"boll_period"`
	BollStdDev float64 `yaml:"boll_std_dev" json:"boll_std_dev"`
	VolWindow  int     `yaml:"vol_window" json:"vol_window"`
	// VolAnnualDays is the trading-day count used to annualize
	// realized volatility (sqrt scaling).
	VolAnnualDays int `yaml:"vol_annual_days" json:"vol_annual_days"`
}

// MinBars is the absolute floor below which no indicator can compute.
func (c IndicatorConfig) MinBars() int {
	return c.MAShort
}

// SurgeConfig holds surge detection parameters.
type SurgeConfig struct {
	// Threshold is the percentage gain that defines a surge.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Lookback is the trailing cumulative-return window in trading
	// days. 1 means single-day detection only.
	Lookback int `yaml:"lookback" json:"lookback"`
	// VolumeBaselineWindow is the trailing bar count used as the
	// volume baseline before an event.
	VolumeBaselineWindow int `yaml:"volume_baseline_window" json:"volume_baseline_window"`
	// VolumeConfirmMultiple is the event/baseline volume ratio needed
	// for volume confirmation.
	VolumeConfirmMultiple float64 `yaml:"volume_confirm_multiple" json:"volume_confirm_multiple"`
	// SpikeMaxDays is the longest span still classified as a spike.
	SpikeMaxDays int `yaml:"spike_max_days" json:"spike_max_days"`
}

// Weights combines the normalized signal scores. Must sum to 1.0.
type Weights struct {
	Momentum   float64 `yaml:"momentum" json:"momentum"`
	Oscillator float64 `yaml:"oscillator" json:"oscillator"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
	Surge      float64 `yaml:"surge" json:"surge"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Momentum + w.Oscillator + w.Volatility + w.Surge
}

// ScoringConfig holds signal normalization boundaries and weights.
type ScoringConfig struct {
	Weights       Weights `yaml:"weights" json:"weights"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	KDJOverbought float64 `yaml:"kdj_overbought" json:"kdj_overbought"`
	// SurgeBonusPerEvent is the surge-signal contribution of one
	// volume-confirmed event; unconfirmed events count half.
	SurgeBonusPerEvent float64 `yaml:"surge_bonus_per_event" json:"surge_bonus_per_event"`
}

// RiskConfig maps the risk index (0-100, higher is riskier) onto the
// ordered risk classes. Boundaries are inclusive lower bounds.
type RiskConfig struct {
	MediumAbove   float64 `yaml:"medium_above" json:"medium_above"`
	HighAbove     float64 `yaml:"high_above" json:"high_above"`
	VeryHighAbove float64 `yaml:"very_high_above" json:"very_high_above"`
}

// Default returns the built-in parameter set used when no strategy
// file is supplied.
func Default() *Config {
	return &Config{
		Indicators: IndicatorConfig{
			MAShort:       5,
			MALong:        20,
			MACDFast:      12,
			MACDSlow:      26,
			MACDSignal:    9,
			RSIPeriod:     14,
			KDJPeriod:     9,
			KDJSmooth:     3,
			BollPeriod:    20,
			BollStdDev:    2.0,
			VolWindow:     20,
			VolAnnualDays: 252,
		},
		Surge: SurgeConfig{
			Threshold:             5.0,
			Lookback:              1,
			VolumeBaselineWindow:  10,
			VolumeConfirmMultiple: 1.5,
			SpikeMaxDays:          2,
		},
		Scoring: ScoringConfig{
			Weights: Weights{
				Momentum:   0.30,
				Oscillator: 0.25,
				Volatility: 0.20,
				Surge:      0.25,
			},
			RSIOverbought:      70,
			RSIOversold:        30,
			KDJOverbought:      80,
			SurgeBonusPerEvent: 15,
		},
		Risk: RiskConfig{
			MediumAbove:   40,
			HighAbove:     60,
			VeryHighAbove: 80,
		},
		Presets: map[string][]StockRef{
			"popular": {
				{Symbol: "000001", Name: "Ping An Bank"},
				{Symbol: "000002", Name: "Vanke A"},
				{Symbol: "000858", Name: "Wuliangye"},
				{Symbol: "600036", Name: "China Merchants Bank"},
				{Symbol: "600519", Name: "Kweichow Moutai"},
			},
			"tech": {
				{Symbol: "002415", Name: "Hikvision"},
				{Symbol: "000725", Name: "BOE Technology"},
				{Symbol: "002230", Name: "iFlytek"},
				{Symbol: "300059", Name: "East Money"},
				{Symbol: "300750", Name: "CATL"},
			},
			"bank": {
				{Symbol: "000001", Name: "Ping An Bank"},
				{Symbol: "600036", Name: "China Merchants Bank"},
				{Symbol: "601398", Name: "ICBC"},
				{Symbol: "601288", Name: "Agricultural Bank"},
				{Symbol: "601939", Name: "CCB"},
			},
		},
		DefaultDays: 180,
		Workers:     4,
	}
}
