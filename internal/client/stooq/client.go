// Package stooq fetches end-of-day daily history from the Stooq CSV
// endpoint. US equities use the lowercase "<symbol>.us" convention.
package stooq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"quantassist/internal/models"
)

type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if host == "" {
		host = "https://stooq.com"
	}
	return &Client{host: strings.TrimRight(host, "/"), httpClient: httpClient}
}

type csvRow struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume int64   `csv:"Volume"`
}

// DailyHistory downloads the full EOD CSV for a symbol and keeps the
// trailing `days` rows.
func (c *Client) DailyHistory(ctx context.Context, symbol string, days int) (*models.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("s", strings.ToLower(symbol)+".us")
	query.Set("i", "d")
	fullURL := c.host + "/q/d/l/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("stooq http %d: %s", resp.StatusCode, string(body))
	}

	var rows []csvRow
	if err := gocsv.Unmarshal(resp.Body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	series := &models.Series{Symbol: strings.ToUpper(symbol)}
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil || row.Close <= 0 {
			continue
		}
		series.Candles = append(series.Candles, models.Candle{
			Date:   date.UTC(),
			Close:  row.Close,
			Volume: row.Volume,
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
