package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

func newCalculator() *Calculator {
	return NewCalculator(strategy.Default().Indicators, logger.Nop())
}

// wavySeries builds a deterministic series with both gains and losses.
func wavySeries(symbol string, n int) *contracts.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, n)
	for i := 0; i < n; i++ {
		base := 100 + 10*math.Sin(float64(i)/7) + float64(i)*0.05
		bars[i] = contracts.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   base - 0.5,
			High:   base + 1,
			Low:    base - 1,
			Close:  base,
			Volume: int64(10000 + 100*i),
		}
	}
	return &contracts.PriceSeries{Symbol: symbol, Bars: bars}
}

func TestCalculate_WarmupPlusLengthEqualsInput(t *testing.T) {
	series := wavySeries("600519", 120)
	set, err := newCalculator().Calculate(series)
	require.NoError(t, err)

	checks := map[string]contracts.IndicatorSeries{
		"ma_short":       set.MAShort,
		"ma_long":        set.MALong,
		"macd_line":      set.MACD.Line,
		"macd_signal":    set.MACD.Signal,
		"macd_histogram": set.MACD.Histogram,
		"rsi":            set.RSI,
		"kdj_k":          set.KDJ.K,
		"kdj_d":          set.KDJ.D,
		"kdj_j":          set.KDJ.J,
		"boll_upper":     set.Bollinger.Upper,
		"boll_mid":       set.Bollinger.Mid,
		"boll_lower":     set.Bollinger.Lower,
		"volatility":     set.Volatility,
	}

	for name, s := range checks {
		require.True(t, s.Defined(), "%s should be defined for 120 bars", name)
		assert.Equal(t, series.Len(), s.Warmup+len(s.Values),
			"%s: warmup %d + len %d != input %d", name, s.Warmup, len(s.Values), series.Len())
	}
}

func TestCalculate_RSIBounds(t *testing.T) {
	set, err := newCalculator().Calculate(wavySeries("600519", 200))
	require.NoError(t, err)

	for i, v := range set.RSI.Values {
		assert.GreaterOrEqual(t, v, 0.0, "RSI[%d]", i)
		assert.LessOrEqual(t, v, 100.0, "RSI[%d]", i)
	}
}

func TestCalculate_RSIAllGainsIsHundred(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, 30)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = contracts.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: price, High: price + 1, Low: price - 1, Close: price,
			Volume: 1000,
		}
	}

	set, err := newCalculator().Calculate(&contracts.PriceSeries{Symbol: "up", Bars: bars})
	require.NoError(t, err)

	for _, v := range set.RSI.Values {
		assert.Equal(t, 100.0, v)
	}
}

func TestCalculate_BollingerBandOrder(t *testing.T) {
	set, err := newCalculator().Calculate(wavySeries("000001", 150))
	require.NoError(t, err)

	for i := range set.Bollinger.Mid.Values {
		upper := set.Bollinger.Upper.Values[i]
		mid := set.Bollinger.Mid.Values[i]
		lower := set.Bollinger.Lower.Values[i]
		assert.GreaterOrEqual(t, upper, mid, "bar %d", i)
		assert.GreaterOrEqual(t, mid, lower, "bar %d", i)
	}
}

func TestCalculate_ShortSeriesPartialIndicators(t *testing.T) {
	// 10 bars: enough for MA5 and KDJ(9), nothing needing 20+.
	set, err := newCalculator().Calculate(wavySeries("000002", 10))
	require.NoError(t, err)

	assert.True(t, set.MAShort.Defined())
	assert.True(t, set.KDJ.K.Defined())
	assert.False(t, set.MALong.Defined(), "MA20 must be absent with 10 bars")
	assert.False(t, set.MACD.Line.Defined(), "MACD must be absent with 10 bars")
	assert.False(t, set.Bollinger.Mid.Defined())
	assert.False(t, set.Volatility.Defined())
}

func TestCalculate_InsufficientData(t *testing.T) {
	_, err := newCalculator().Calculate(wavySeries("tiny", 3))
	require.Error(t, err)

	var insufficient *contracts.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "tiny", insufficient.Symbol)
	assert.Equal(t, 3, insufficient.Bars)
}

func TestCalculate_MalformedBar(t *testing.T) {
	series := wavySeries("bad", 30)
	series.Bars[7].Close = series.Bars[7].High + 5 // close above high

	_, err := newCalculator().Calculate(series)
	require.Error(t, err)

	var integrity *contracts.DataIntegrityError
	assert.True(t, errors.As(err, &integrity))
}

func TestSMA(t *testing.T) {
	s := sma([]float64{1, 2, 3, 4, 5}, 3)
	require.Equal(t, 2, s.Warmup)
	require.Len(t, s.Values, 3)
	assert.InDelta(t, 2.0, s.Values[0], 1e-9)
	assert.InDelta(t, 3.0, s.Values[1], 1e-9)
	assert.InDelta(t, 4.0, s.Values[2], 1e-9)
}

func TestEMA_SeedIsSimpleMean(t *testing.T) {
	s := ema([]float64{2, 4, 6, 8}, 3)
	require.Equal(t, 2, s.Warmup)
	require.Len(t, s.Values, 2)
	// Seed = mean(2,4,6) = 4; next = 8*0.5 + 4*0.5 = 6.
	assert.InDelta(t, 4.0, s.Values[0], 1e-9)
	assert.InDelta(t, 6.0, s.Values[1], 1e-9)
}

func TestSampleStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := meanOf(values)
	assert.InDelta(t, 5.0, mean, 1e-9)
	// Sample (n-1) stddev of this classic set is ~2.138.
	assert.InDelta(t, 2.13809, sampleStdDev(values, mean), 1e-4)
}
