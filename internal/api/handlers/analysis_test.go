package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwen/surgelens/internal/analysis"
	"github.com/luwen/surgelens/internal/contracts"
	"github.com/luwen/surgelens/internal/datasource"
	"github.com/luwen/surgelens/internal/strategy"
	"github.com/luwen/surgelens/pkg/logger"
)

// memorySource serves generated series for a fixed symbol set.
type memorySource struct {
	symbols map[string]bool
}

func (m *memorySource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (*datasource.SeriesResult, error) {
	if !m.symbols[symbol] {
		return nil, &contracts.DataUnavailableError{
			Symbol: symbol,
			Stage:  contracts.StageFetch,
			Err:    fmt.Errorf("unknown symbol"),
		}
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, 120)
	price := 50.0
	for i := range bars {
		if i > 0 {
			if i == 60 {
				price *= 1.07
			} else {
				price *= 1.001
			}
		}
		vol := int64(1000)
		if i == 60 {
			vol = 3000
		}
		bars[i] = contracts.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: price * 0.995, High: price * 1.01, Low: price * 0.99, Close: price,
			Volume: vol,
		}
	}
	return &datasource.SeriesResult{
		Series: &contracts.PriceSeries{Symbol: symbol, Bars: bars},
		Name:   "Stub " + symbol,
	}, nil
}

func (m *memorySource) FetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	return &contracts.CompanyProfile{Industry: "Test"}, nil
}

func newHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	cfg := strategy.Default()
	cfg.Presets = map[string][]strategy.StockRef{
		"popular": {{Symbol: "600519"}, {Symbol: "000001"}},
	}
	source := &memorySource{symbols: map[string]bool{"600519": true, "000001": true, "300750": true}}
	o, err := analysis.New(source, cfg, logger.Nop())
	require.NoError(t, err)
	return NewAnalysisHandler(o, logger.Nop())
}

func postJSON(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyze_OK(t *testing.T) {
	h := newHandler(t)

	rec := postJSON(h.Analyze, `{"symbol":"600519","days":120}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report contracts.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "600519", report.Symbol)
	assert.Equal(t, "Stub 600519", report.Name)
	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, "Test", report.Company.Industry)
}

func TestAnalyze_MissingSymbol(t *testing.T) {
	rec := postJSON(newHandler(t).Analyze, `{"days":90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_MalformedBody(t *testing.T) {
	rec := postJSON(newHandler(t).Analyze, `{"symbol": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_UnknownSymbol(t *testing.T) {
	rec := postJSON(newHandler(t).Analyze, `{"symbol":"999999"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "999999")
}

func TestSurges_OK(t *testing.T) {
	rec := postJSON(newHandler(t).Surges, `{"symbol":"300750","threshold":6.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary contracts.SurgeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 6.5, summary.Threshold)
	assert.Equal(t, 1, summary.Stats.Count)
}

func TestSurges_NegativeThreshold(t *testing.T) {
	rec := postJSON(newHandler(t).Surges, `{"symbol":"300750","threshold":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare_OK(t *testing.T) {
	rec := postJSON(newHandler(t).Compare,
		`{"stocks":[{"symbol":"600519"},{"symbol":"000001"}],"days":120}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Ranking, 2)
}

func TestCompare_TooFewSymbols(t *testing.T) {
	rec := postJSON(newHandler(t).Compare, `{"stocks":[{"symbol":"600519"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_Preset(t *testing.T) {
	rec := postJSON(newHandler(t).Batch, `{"preset":"popular"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var board contracts.Leaderboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Len(t, board.Entries, 2)
	assert.Equal(t, 2, board.Stats.Analyzed)
}

func TestBatch_UnknownPreset(t *testing.T) {
	rec := postJSON(newHandler(t).Batch, `{"preset":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch_NothingRequested(t *testing.T) {
	rec := postJSON(newHandler(t).Batch, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresets(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.Presets(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Names []string `json:"names"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"popular"}, payload.Names)
}
