package indicator

import (
	"math"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// Calculator turns a validated price series into the indicator battery.
// Pure computation: no state, no I/O.
type Calculator struct {
	cfg    strategy.IndicatorConfig
	logger *logger.Logger
}

// NewCalculator creates a new indicator calculator
func NewCalculator(cfg strategy.IndicatorConfig, log *logger.Logger) *Calculator {
	return &Calculator{
		cfg:    cfg,
		logger: log.WithField("module", "indicator"),
	}
}

// Calculate computes every indicator the series has enough bars for.
// Indicators whose warm-up window exceeds the series length come back
// entirely absent; that is not a failure. The series must carry at
// least MinBars() bars, otherwise InsufficientDataError.
func (c *Calculator) Calculate(series *contracts.PriceSeries) (*contracts.IndicatorSet, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	if series.Len() < c.cfg.MinBars() {
		return nil, &contracts.InsufficientDataError{
			Symbol:  series.Symbol,
			Bars:    series.Len(),
			MinBars: c.cfg.MinBars(),
		}
	}

	closes := series.Closes()

	set := &contracts.IndicatorSet{
		MAShort:    sma(closes, c.cfg.MAShort),
		MALong:     sma(closes, c.cfg.MALong),
		MACD:       c.macd(closes),
		RSI:        rsi(closes, c.cfg.RSIPeriod),
		KDJ:        c.kdj(series.Bars),
		Bollinger:  c.bollinger(closes),
		Volatility: c.volatility(closes),
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": series.Symbol,
		"bars":   series.Len(),
	}).Debug("Calculated indicator set")

	return set, nil
}

// sma computes a simple rolling mean over a fixed window.
func sma(values []float64, period int) contracts.IndicatorSeries {
	s := contracts.IndicatorSeries{Warmup: period - 1}
	if len(values) < period {
		return s
	}

	s.Values = make([]float64, 0, len(values)-period+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			s.Values = append(s.Values, sum/float64(period))
		}
	}
	return s
}

// ema computes an exponential moving average seeded with the simple
// mean of the first period values.
func ema(values []float64, period int) contracts.IndicatorSeries {
	s := contracts.IndicatorSeries{Warmup: period - 1}
	if len(values) < period {
		return s
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)

	multiplier := 2.0 / (float64(period) + 1.0)

	s.Values = make([]float64, 0, len(values)-period+1)
	s.Values = append(s.Values, seed)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = values[i]*multiplier + prev*(1-multiplier)
		s.Values = append(s.Values, prev)
	}
	return s
}

// macd computes the EMA(fast)-EMA(slow) line, its EMA(signal) smoothing
// and the histogram.
func (c *Calculator) macd(closes []float64) contracts.MACDSeries {
	fast := ema(closes, c.cfg.MACDFast)
	slow := ema(closes, c.cfg.MACDSlow)

	out := contracts.MACDSeries{
		Line:      contracts.IndicatorSeries{Warmup: c.cfg.MACDSlow - 1},
		Signal:    contracts.IndicatorSeries{Warmup: c.cfg.MACDSlow + c.cfg.MACDSignal - 2},
		Histogram: contracts.IndicatorSeries{Warmup: c.cfg.MACDSlow + c.cfg.MACDSignal - 2},
	}
	if !slow.Defined() {
		return out
	}

	line := make([]float64, len(slow.Values))
	for i := range slow.Values {
		bar := slow.Warmup + i
		fv, _ := fast.At(bar)
		line[i] = fv - slow.Values[i]
	}
	out.Line.Values = line

	sig := ema(line, c.cfg.MACDSignal)
	if !sig.Defined() {
		return out
	}
	out.Signal.Values = sig.Values

	hist := make([]float64, len(sig.Values))
	for i := range sig.Values {
		hist[i] = line[i+sig.Warmup] - sig.Values[i]
	}
	out.Histogram.Values = hist
	return out
}

// rsi computes Wilder's RSI: the seed averages are simple means of the
// first period gains/losses, then smoothed with (prev*(n-1)+cur)/n.
// A zero average loss pins RSI at 100.
func rsi(closes []float64, period int) contracts.IndicatorSeries {
	s := contracts.IndicatorSeries{Warmup: period}
	if len(closes) < period+1 {
		return s
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	s.Values = make([]float64, 0, len(closes)-period)
	s.Values = append(s.Values, rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		s.Values = append(s.Values, rsiValue(avgGain, avgLoss))
	}
	return s
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// kdj computes the raw stochastic %K over the high/low window, a
// 3-period SMA %D and %J = 3D - 2K. A flat window yields K = 50.
func (c *Calculator) kdj(bars []contracts.PriceBar) contracts.KDJSeries {
	p := c.cfg.KDJPeriod
	smooth := c.cfg.KDJSmooth

	out := contracts.KDJSeries{
		K: contracts.IndicatorSeries{Warmup: p - 1},
		D: contracts.IndicatorSeries{Warmup: p + smooth - 2},
		J: contracts.IndicatorSeries{Warmup: p + smooth - 2},
	}
	if len(bars) < p {
		return out
	}

	k := make([]float64, 0, len(bars)-p+1)
	for i := p - 1; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		for j := i - p + 1; j < i; j++ {
			if bars[j].High > high {
				high = bars[j].High
			}
			if bars[j].Low < low {
				low = bars[j].Low
			}
		}
		if high == low {
			k = append(k, 50)
			continue
		}
		k = append(k, (bars[i].Close-low)/(high-low)*100)
	}
	out.K.Values = k

	d := sma(k, smooth)
	if !d.Defined() {
		return out
	}
	out.D.Values = d.Values

	j := make([]float64, len(d.Values))
	for i := range d.Values {
		j[i] = 3*d.Values[i] - 2*k[i+d.Warmup]
	}
	out.J.Values = j
	return out
}

// bollinger computes the rolling mean band with +- k sample standard
// deviations.
func (c *Calculator) bollinger(closes []float64) contracts.BollingerSeries {
	p := c.cfg.BollPeriod
	out := contracts.BollingerSeries{
		Upper: contracts.IndicatorSeries{Warmup: p - 1},
		Mid:   contracts.IndicatorSeries{Warmup: p - 1},
		Lower: contracts.IndicatorSeries{Warmup: p - 1},
	}
	if len(closes) < p {
		return out
	}

	n := len(closes) - p + 1
	out.Upper.Values = make([]float64, n)
	out.Mid.Values = make([]float64, n)
	out.Lower.Values = make([]float64, n)

	for i := p - 1; i < len(closes); i++ {
		window := closes[i-p+1 : i+1]
		mean := meanOf(window)
		std := sampleStdDev(window, mean)

		idx := i - p + 1
		out.Mid.Values[idx] = mean
		out.Upper.Values[idx] = mean + c.cfg.BollStdDev*std
		out.Lower.Values[idx] = mean - c.cfg.BollStdDev*std
	}
	return out
}

// volatility computes the rolling sample standard deviation of simple
// daily returns, annualized by sqrt(VolAnnualDays).
func (c *Calculator) volatility(closes []float64) contracts.IndicatorSeries {
	w := c.cfg.VolWindow
	s := contracts.IndicatorSeries{Warmup: w}
	if len(closes) < w+1 {
		return s
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = closes[i]/closes[i-1] - 1
	}

	annual := math.Sqrt(float64(c.cfg.VolAnnualDays))
	s.Values = make([]float64, 0, len(returns)-w+1)
	for i := w - 1; i < len(returns); i++ {
		window := returns[i-w+1 : i+1]
		mean := meanOf(window)
		s.Values = append(s.Values, sampleStdDev(window, mean)*annual)
	}
	return s
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
