package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/external/eastmoney"
	"github.com/luwen/surgelens/pkg/logger"
)

// EastmoneySource adapts the Eastmoney client onto the Source contract.
type EastmoneySource struct {
	client *eastmoney.Client
	logger *logger.Logger
}

// NewEastmoneySource creates the Eastmoney-backed source.
func NewEastmoneySource(client *eastmoney.Client, log *logger.Logger) *EastmoneySource {
	return &EastmoneySource{
		client: client,
		logger: log.WithField("module", "datasource"),
	}
}

// FetchSeries fetches and validates the daily series for one symbol.
func (s *EastmoneySource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*SeriesResult, error) {
	result, err := s.client.FetchKlines(ctx, symbol, from, to)
	if err != nil {
		return nil, &contracts.DataUnavailableError{
			Symbol: symbol,
			Stage:  contracts.StageFetch,
			Err:    err,
		}
	}
	if len(result.Bars) == 0 {
		return nil, &contracts.DataUnavailableError{
			Symbol: symbol,
			Stage:  contracts.StageFetch,
			Err:    fmt.Errorf("no trading days between %s and %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		}
	}

	series := &contracts.PriceSeries{Symbol: symbol, Bars: result.Bars}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return &SeriesResult{Series: series, Name: result.Name}, nil
}

// FetchProfile fetches optional company metadata.
func (s *EastmoneySource) FetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	return s.client.FetchProfile(ctx, symbol)
}
