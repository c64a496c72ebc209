package eastmoney

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwen/surgelens/pkg/httputil"
	"github.com/luwen/surgelens/pkg/logger"
)

func TestSecID(t *testing.T) {
	assert.Equal(t, "1.600519", secID("600519"))
	assert.Equal(t, "1.900905", secID("900905"))
	assert.Equal(t, "0.000001", secID("000001"))
	assert.Equal(t, "0.300750", secID("300750"))
}

func TestParseKline(t *testing.T) {
	bar, err := parseKline("2025-03-14,1688.00,1700.50,1712.00,1680.10,32458")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), bar.Date)
	assert.InDelta(t, 1688.00, bar.Open, 1e-9)
	assert.InDelta(t, 1700.50, bar.Close, 1e-9)
	assert.InDelta(t, 1712.00, bar.High, 1e-9)
	assert.InDelta(t, 1680.10, bar.Low, 1e-9)
	assert.Equal(t, int64(32458), bar.Volume)
	assert.NoError(t, bar.Validate())
}

func TestParseKline_Malformed(t *testing.T) {
	cases := []string{
		"",
		"2025-03-14,1688.00,1700.50",
		"notadate,1,2,3,4,5",
		"2025-03-14,abc,1700.50,1712.00,1680.10,32458",
	}
	for _, line := range cases {
		_, err := parseKline(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestFetchKlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/qt/stock/kline/get", r.URL.Path)
		assert.Equal(t, "1.600519", r.URL.Query().Get("secid"))
		assert.Equal(t, "101", r.URL.Query().Get("klt"))
		assert.Equal(t, "20250101", r.URL.Query().Get("beg"))

		fmt.Fprint(w, `{"data":{"code":"600519","name":"Kweichow Moutai","klines":[
			"2025-01-02,1500.00,1510.00,1515.00,1495.00,21000",
			"2025-01-03,1510.00,1530.00,1532.00,1508.00,25000"
		]}}`)
	}))
	defer server.Close()

	httpClient := httputil.New(logger.Nop(), 5*time.Second).DisableRetry()
	client := NewClient(httpClient, logger.Nop(), server.URL, server.URL)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	result, err := client.FetchKlines(context.Background(), "600519", from, to)
	require.NoError(t, err)

	assert.Equal(t, "600519", result.Symbol)
	assert.Equal(t, "Kweichow Moutai", result.Name)
	require.Len(t, result.Bars, 2)
	assert.InDelta(t, 1530.00, result.Bars[1].Close, 1e-9)
	assert.Equal(t, int64(25000), result.Bars[1].Volume)
}

func TestFetchKlines_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null}`)
	}))
	defer server.Close()

	httpClient := httputil.New(logger.Nop(), 5*time.Second).DisableRetry()
	client := NewClient(httpClient, logger.Nop(), server.URL, server.URL)

	_, err := client.FetchKlines(context.Background(), "600000",
		time.Now().AddDate(0, -1, 0), time.Now())
	assert.Error(t, err)
}

func TestParseProfileHTML(t *testing.T) {
	html := `<html><body><table>
		<tr><td>所属行业</td><td>白酒</td><td>上市日期</td><td>2001-08-27</td></tr>
		<tr><td>总市值</td><td>2.1万亿</td><td>流通市值</td><td>2.1万亿</td></tr>
	</table></body></html>`

	profile, err := parseProfileHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "白酒", profile.Industry)
	assert.Equal(t, "2.1万亿", profile.MarketCap)
}

func TestParseProfileHTML_MissingRows(t *testing.T) {
	profile, err := parseProfileHTML("<html><body><p>maintenance</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, profile.Industry)
	assert.Empty(t, profile.MarketCap)
}
