package datasource

import (
	"context"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
)

// SeriesResult is one fetched daily series plus the display name the
// provider returned alongside it.
type SeriesResult struct {
	Series *contracts.PriceSeries `json:"series"`
	Name   string                 `json:"name,omitempty"`
}

// Source delivers daily price series and company metadata. FetchSeries
// returns DataUnavailableError when the provider fails and
// DataIntegrityError when the payload is malformed. FetchProfile
// failures are meant to degrade, never to abort an analysis.
type Source interface {
	FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*SeriesResult, error)
	FetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error)
}
