package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/luwen/surgelens/internal/contracts"
)

// FetchProfile scrapes the company-profile page for industry and market
// cap. Callers treat failures here as degradation, not as fatal.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	market := "SZ"
	if strings.HasPrefix(secID(symbol), "1.") {
		market = "SH"
	}
	fullURL := fmt.Sprintf("%s/companyprofile/index?code=%s%s", c.profileBaseURL, market, symbol)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	profile, err := parseProfileHTML(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"industry": profile.Industry,
	}).Debug("Fetched company profile")

	return profile, nil
}

// parseProfileHTML walks the profile tables for the industry and market
// cap rows. Labels come in both Chinese and English page variants.
func parseProfileHTML(body string) (*contracts.CompanyProfile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse profile HTML failed: %w", err)
	}

	profile := &contracts.CompanyProfile{}
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		for i := 0; i+1 < cells.Length(); i += 2 {
			label := strings.TrimSpace(cells.Eq(i).Text())
			value := strings.TrimSpace(cells.Eq(i + 1).Text())
			if value == "" || value == "-" {
				continue
			}
			switch {
			case profile.Industry == "" && (strings.Contains(label, "行业") || strings.EqualFold(label, "industry")):
				profile.Industry = value
			case profile.MarketCap == "" && (strings.Contains(label, "总市值") || strings.EqualFold(label, "market cap")):
				profile.MarketCap = value
			}
		}
	})

	return profile, nil
}
