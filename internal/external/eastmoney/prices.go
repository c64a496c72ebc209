package eastmoney

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/luwen/surgelens/internal/contracts"
)

// KlineResult is the payload of one daily-kline fetch.
type KlineResult struct {
	Symbol string
	Name   string
	Bars   []contracts.PriceBar
}

type klineResponse struct {
	Data *klineData `json:"data"`
}

type klineData struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Klines []string `json:"klines"`
}

// FetchKlines fetches forward-adjusted daily bars for one symbol.
// Eastmoney kline API calls happen only in this function.
func (c *Client) FetchKlines(ctx context.Context, symbol string, from, to time.Time) (*KlineResult, error) {
	fullURL := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56&klt=101&fqt=1&beg=%s&end=%s",
		c.klineBaseURL, secID(symbol),
		from.Format("20060102"), to.Format("20060102"),
	)

	var payload klineResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("kline request failed: %w", err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("empty kline payload for %s", symbol)
	}

	bars := make([]contracts.PriceBar, 0, len(payload.Data.Klines))
	for _, line := range payload.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return nil, fmt.Errorf("parse kline %q failed: %w", line, err)
		}
		bars = append(bars, bar)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched klines")

	return &KlineResult{Symbol: symbol, Name: payload.Data.Name, Bars: bars}, nil
}

// parseKline parses one "date,open,close,high,low,volume" row.
func parseKline(line string) (contracts.PriceBar, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return contracts.PriceBar{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return contracts.PriceBar{}, fmt.Errorf("bad date: %w", err)
	}

	nums := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return contracts.PriceBar{}, fmt.Errorf("bad field %d: %w", i+1, err)
		}
		nums[i] = v
	}

	return contracts.PriceBar{
		Date:   date,
		Open:   nums[0],
		Close:  nums[1],
		High:   nums[2],
		Low:    nums[3],
		Volume: int64(nums[4]),
	}, nil
}
