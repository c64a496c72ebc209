package contracts

// IndicatorSeries holds per-bar values for one indicator. Values are
// aligned to the source series: Values[i] belongs to bar i+Warmup.
// Bars inside the warm-up window carry no value at all.
type IndicatorSeries struct {
	Warmup int       `json:"warmup"`
	Values []float64 `json:"values"`
}

// Defined reports whether the indicator produced any values for the run.
func (s IndicatorSeries) Defined() bool { return len(s.Values) > 0 }

// At returns the value at the source-series bar index, if defined.
func (s IndicatorSeries) At(bar int) (float64, bool) {
	i := bar - s.Warmup
	if i < 0 || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// Last returns the most recent value, if any.
func (s IndicatorSeries) Last() (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	return s.Values[len(s.Values)-1], true
}

// MACDSeries bundles the MACD line, its signal line and the histogram.
type MACDSeries struct {
	Line      IndicatorSeries `json:"line"`
	Signal    IndicatorSeries `json:"signal"`
	Histogram IndicatorSeries `json:"histogram"`
}

// KDJSeries bundles the stochastic K, D and J lines. K and D are
// nominally 0-100; J may exceed those bounds.
type KDJSeries struct {
	K IndicatorSeries `json:"k"`
	D IndicatorSeries `json:"d"`
	J IndicatorSeries `json:"j"`
}

// BollingerSeries bundles the Bollinger upper, middle and lower bands.
type BollingerSeries struct {
	Upper IndicatorSeries `json:"upper"`
	Mid   IndicatorSeries `json:"mid"`
	Lower IndicatorSeries `json:"lower"`
}

// IndicatorSet is the full per-bar indicator battery for one series.
type IndicatorSet struct {
	MAShort    IndicatorSeries `json:"ma_short"`
	MALong     IndicatorSeries `json:"ma_long"`
	MACD       MACDSeries      `json:"macd"`
	RSI        IndicatorSeries `json:"rsi"`
	KDJ        KDJSeries       `json:"kdj"`
	Bollinger  BollingerSeries `json:"bollinger"`
	Volatility IndicatorSeries `json:"volatility"` // annualized
}

// IndicatorValue is one snapshot value; Defined is false when the bar
// fell inside the indicator's warm-up window.
type IndicatorValue struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// IndicatorSnapshot carries the latest value of each indicator plus the
// closing price it belongs to. This is what the scoring engine consumes.
type IndicatorSnapshot struct {
	LastClose     float64        `json:"last_close"`
	MAShort       IndicatorValue `json:"ma_short"`
	MALong        IndicatorValue `json:"ma_long"`
	MACDLine      IndicatorValue `json:"macd_line"`
	MACDSignal    IndicatorValue `json:"macd_signal"`
	MACDHistogram IndicatorValue `json:"macd_histogram"`
	RSI           IndicatorValue `json:"rsi"`
	KDJK          IndicatorValue `json:"kdj_k"`
	KDJD          IndicatorValue `json:"kdj_d"`
	KDJJ          IndicatorValue `json:"kdj_j"`
	BollUpper     IndicatorValue `json:"boll_upper"`
	BollMid       IndicatorValue `json:"boll_mid"`
	BollLower     IndicatorValue `json:"boll_lower"`
	Volatility    IndicatorValue `json:"volatility"`
}

func snapshotOf(s IndicatorSeries) IndicatorValue {
	v, ok := s.Last()
	return IndicatorValue{Value: v, Defined: ok}
}

// Snapshot extracts the latest values from the set.
func (set *IndicatorSet) Snapshot(lastClose float64) IndicatorSnapshot {
	return IndicatorSnapshot{
		LastClose:     lastClose,
		MAShort:       snapshotOf(set.MAShort),
		MALong:        snapshotOf(set.MALong),
		MACDLine:      snapshotOf(set.MACD.Line),
		MACDSignal:    snapshotOf(set.MACD.Signal),
		MACDHistogram: snapshotOf(set.MACD.Histogram),
		RSI:           snapshotOf(set.RSI),
		KDJK:          snapshotOf(set.KDJ.K),
		KDJD:          snapshotOf(set.KDJ.D),
		KDJJ:          snapshotOf(set.KDJ.J),
		BollUpper:     snapshotOf(set.Bollinger.Upper),
		BollMid:       snapshotOf(set.Bollinger.Mid),
		BollLower:     snapshotOf(set.Bollinger.Lower),
		Volatility:    snapshotOf(set.Volatility),
	}
}
