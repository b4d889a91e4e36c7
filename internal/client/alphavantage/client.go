// Package alphavantage is a last-resort daily-history fallback via the
// Alpha Vantage TIME_SERIES_DAILY function. Requires an API key.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quantassist/internal/models"
)

type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if host == "" {
		host = "https://www.alphavantage.co"
	}
	return &Client{host: strings.TrimRight(host, "/"), apiKey: apiKey, httpClient: httpClient}
}

func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type dailyResponse struct {
	Note   string                       `json:"Note"`
	Series map[string]map[string]string `json:"Time Series (Daily)"`
}

// DailyHistory fetches and normalizes the daily close series.
func (c *Client) DailyHistory(ctx context.Context, symbol string, days int) (*models.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", symbol)
	query.Set("apikey", c.apiKey)
	if days > 100 {
		query.Set("outputsize", "full")
	}
	fullURL := c.host + "/query?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage http %d: %s", resp.StatusCode, string(body))
	}
	var parsed dailyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse daily response: %w", err)
	}
	// Alpha Vantage reports throttling as a 200 with a "Note" field.
	if parsed.Note != "" {
		return nil, fmt.Errorf("alphavantage throttled: %s", parsed.Note)
	}
	if len(parsed.Series) == 0 {
		return nil, fmt.Errorf("no daily series for %s", symbol)
	}

	series := &models.Series{Symbol: symbol}
	for dateStr, fields := range parsed.Series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		closePx, err := strconv.ParseFloat(fields["4. close"], 64)
		if err != nil || closePx <= 0 {
			continue
		}
		volume, _ := strconv.ParseInt(fields["5. volume"], 10, 64)
		series.Candles = append(series.Candles, models.Candle{
			Date:   date.UTC(),
			Close:  closePx,
			Volume: volume,
		})
	}
	series.Normalize()
	if len(series.Candles) == 0 {
		return nil, fmt.Errorf("no usable rows for %s", symbol)
	}
	if days > 0 && len(series.Candles) > days {
		series.Candles = series.Candles[len(series.Candles)-days:]
	}
	return series, nil
}
