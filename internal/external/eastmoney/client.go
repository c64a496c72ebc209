package eastmoney

import (
	"strings"

	"github.com/luwen/surgelens/pkg/httputil"
	"github.com/luwen/surgelens/pkg/logger"
)

// Client handles communication with the Eastmoney quote services.
// All Eastmoney API calls go through this client.
type Client struct {
	httpClient     *httputil.Client
	logger         *logger.Logger
	klineBaseURL   string
	profileBaseURL string
}

// NewClient creates a new Eastmoney client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, klineBaseURL, profileBaseURL string) *Client {
	return &Client{
		httpClient:     httpClient,
		logger:         log.WithField("module", "eastmoney"),
		klineBaseURL:   strings.TrimRight(klineBaseURL, "/"),
		profileBaseURL: strings.TrimRight(profileBaseURL, "/"),
	}
}

// secID maps a 6-digit A-share symbol onto Eastmoney's market-prefixed
// security id: market 1 for Shanghai, market 0 for Shenzhen.
func secID(symbol string) string {
	if strings.HasPrefix(symbol, "6") || strings.HasPrefix(symbol, "9") {
		return "1." + symbol
	}
	return "0." + symbol
}
