package contracts

import (
	"fmt"
	"time"
)

// PriceBar represents one trading day of OHLCV data.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Validate checks the OHLC invariant: 0 < low <= {open, close} <= high.
func (b PriceBar) Validate() error {
	if b.Low <= 0 {
		return fmt.Errorf("low must be positive, got %v", b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("volume must be non-negative, got %d", b.Volume)
	}
	if b.Open < b.Low || b.Open > b.High {
		return fmt.Errorf("open %v outside [low %v, high %v]", b.Open, b.Low, b.High)
	}
	if b.Close < b.Low || b.Close > b.High {
		return fmt.Errorf("close %v outside [low %v, high %v]", b.Close, b.Low, b.High)
	}
	return nil
}

// PriceSeries is an ordered daily bar sequence for one symbol,
// strictly ascending by date. Immutable once retrieved; owned by a
// single analysis run.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (s *PriceSeries) Len() int { return len(s.Bars) }

// First returns the earliest bar. Callers must check Len() > 0.
func (s *PriceSeries) First() PriceBar { return s.Bars[0] }

// Last returns the latest bar. Callers must check Len() > 0.
func (s *PriceSeries) Last() PriceBar { return s.Bars[len(s.Bars)-1] }

// Closes returns the closing prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Validate checks every bar and the strictly-ascending date order.
// Violations surface as DataIntegrityError.
func (s *PriceSeries) Validate() error {
	for i, bar := range s.Bars {
		if err := bar.Validate(); err != nil {
			return &DataIntegrityError{Symbol: s.Symbol, Date: bar.Date, Reason: err.Error()}
		}
		if i > 0 && !s.Bars[i-1].Date.Before(bar.Date) {
			return &DataIntegrityError{
				Symbol: s.Symbol,
				Date:   bar.Date,
				Reason: fmt.Sprintf("dates not strictly ascending: %s then %s",
					s.Bars[i-1].Date.Format("2006-01-02"), bar.Date.Format("2006-01-02")),
			}
		}
	}
	return nil
}

// TotalReturn returns the percentage change from first to last close.
func (s *PriceSeries) TotalReturn() float64 {
	if len(s.Bars) < 2 {
		return 0
	}
	return (s.Last().Close/s.First().Close - 1) * 100
}
