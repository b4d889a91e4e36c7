// Package yahoo speaks the raw Yahoo Finance JSON endpoints: batch
// quote (v7), predefined screeners (v1), chart history (v8), option
// chains (v7) and news search (v1).
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quantassist/internal/models"
)

type Client struct {
	quoteHost  string
	dataHost   string
	userAgent  string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error (%d): %s", e.Status, e.Body)
}

// RateLimited reports whether an error is a Yahoo HTTP 429 or carries
// the "Too Many Requests" marker in its body.
func RateLimited(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiErr.Status == http.StatusTooManyRequests ||
		strings.Contains(apiErr.Body, "Too Many Requests")
}

func NewClient(httpClient *http.Client, quoteHost, dataHost, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if quoteHost == "" {
		quoteHost = "https://query2.finance.yahoo.com"
	}
	if dataHost == "" {
		dataHost = "https://query1.finance.yahoo.com"
	}
	return &Client{
		quoteHost:  strings.TrimRight(quoteHost, "/"),
		dataHost:   strings.TrimRight(dataHost, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, host, path string, query url.Values) ([]byte, error) {
	fullURL := host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
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
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// QuoteBatch fetches regular-market quotes for up to 50 symbols in one
// call via /v7/finance/quote.
func (c *Client) QuoteBatch(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols are required")
	}
	if len(symbols) > 50 {
		symbols = symbols[:50]
	}
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))
	body, err := c.doRequest(ctx, c.quoteHost, "/v7/finance/quote", query)
	if err != nil {
		return nil, err
	}
	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	now := time.Now().UTC()
	out := make([]models.Quote, 0, len(parsed.QuoteResponse.Result))
	for _, r := range parsed.QuoteResponse.Result {
		if r.Symbol == "" {
			continue
		}
		q := models.Quote{Symbol: r.Symbol, AsOf: now, Name: r.ShortName}
		if q.Name == "" {
			q.Name = r.LongName
		}
		if r.RegularMarketPrice != nil {
			q.Price = r.RegularMarketPrice
		}
		if r.RegularMarketChangePercent != nil {
			q.ChangePct = r.RegularMarketChangePercent
		}
		out = append(out, q)
	}
	return out, nil
}

// DayGainers queries the predefined "day_gainers" screener.
func (c *Client) DayGainers(ctx context.Context, count int) ([]models.Quote, error) {
	if count <= 0 {
		count = 24
	}
	query := url.Values{}
	query.Set("count", fmt.Sprintf("%d", count))
	query.Set("scrIds", "day_gainers")
	body, err := c.doRequest(ctx, c.dataHost, "/v1/finance/screener/predefined/saved", query)
	if err != nil {
		return nil, err
	}
	var parsed screenerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse screener response: %w", err)
	}
	if len(parsed.Finance.Result) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	out := make([]models.Quote, 0, count)
	for _, q := range parsed.Finance.Result[0].Quotes {
		if q.Symbol == "" || strings.Contains(q.Symbol, ".") {
			continue
		}
		if q.RegularMarketPrice == nil || q.RegularMarketChangePercent == nil {
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		if name == "" {
			name = q.Symbol
		}
		out = append(out, models.Quote{
			Symbol:    q.Symbol,
			Price:     q.RegularMarketPrice,
			ChangePct: q.RegularMarketChangePercent,
			Name:      name,
			AsOf:      now,
		})
	}
	return out, nil
}

// DailyHistory fetches up to `days` daily candles from /v8/finance/chart.
func (c *Client) DailyHistory(ctx context.Context, symbol string, days int) (*models.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if days <= 0 {
		days = 365
	}
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", rangeForDays(days))
	body, err := c.doRequest(ctx, c.dataHost, "/v8/finance/chart/"+url.PathEscape(symbol), query)
	if err != nil {
		return nil, err
	}
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}
	res := parsed.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote indicators for %s", symbol)
	}
	quote := res.Indicators.Quote[0]
	series := &models.Series{Symbol: symbol}
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		if quote.Close[i] == nil || *quote.Close[i] <= 0 {
			continue
		}
		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}
		series.Candles = append(series.Candles, models.Candle{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: vol,
		})
	}
	series.Normalize()
	if len(series.Candles) > days {
		series.Candles = series.Candles[len(series.Candles)-days:]
	}
	return series, nil
}

// OptionChain fetches the chain for one expiry (or the default front
// expiries when expiry is zero) from /v7/finance/options.
func (c *Client) OptionChain(ctx context.Context, symbol string, expiry time.Time) (*ChainResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	if !expiry.IsZero() {
		query.Set("date", fmt.Sprintf("%d", expiry.Unix()))
	}
	body, err := c.doRequest(ctx, c.quoteHost, "/v7/finance/options/"+url.PathEscape(symbol), query)
	if err != nil {
		return nil, err
	}
	var parsed optionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse options response: %w", err)
	}
	if len(parsed.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("empty option chain for %s", symbol)
	}
	return &parsed.OptionChain.Result[0], nil
}

// News returns up to limit headlines for a symbol via /v1/finance/search.
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		limit = 4
	}
	query := url.Values{}
	query.Set("q", symbol)
	query.Set("newsCount", fmt.Sprintf("%d", limit))
	body, err := c.doRequest(ctx, c.quoteHost, "/v1/finance/search", query)
	if err != nil {
		return nil, err
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	out := make([]models.NewsItem, 0, limit)
	for _, n := range parsed.News {
		if n.Title == "" {
			continue
		}
		out = append(out, models.NewsItem{
			Symbol:    symbol,
			Title:     n.Title,
			Publisher: n.Publisher,
			URL:       n.Link,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
