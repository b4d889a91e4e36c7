// Package tradier is a minimal client for the Tradier brokerage
// market-data API: option expirations and chains with greeks.
package tradier

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
	host       string
	token      string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tradier API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if host == "" {
		host = "https://api.tradier.com"
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// Configured reports whether a bearer token is present; without one the
// client is skipped by the gateway instead of producing auth errors.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.token) != ""
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
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

// Expirations lists option expiration dates for a symbol.
func (c *Client) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("symbol", symbol)
	body, err := c.doRequest(ctx, "/v1/markets/options/expirations", query)
	if err != nil {
		return nil, err
	}
	var parsed expirationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse expirations: %w", err)
	}
	out := make([]time.Time, 0, len(parsed.Expirations.Date))
	for _, d := range parsed.Expirations.Date {
		parsedDate, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		out = append(out, parsedDate)
	}
	return out, nil
}

// Chain fetches the option chain for one expiration, normalized into
// internal contract rows.
func (c *Client) Chain(ctx context.Context, symbol string, expiration time.Time) ([]models.OptionContract, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("expiration", expiration.Format("2006-01-02"))
	query.Set("greeks", "true")
	body, err := c.doRequest(ctx, "/v1/markets/options/chains", query)
	if err != nil {
		return nil, err
	}
	var parsed chainResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chain: %w", err)
	}
	out := make([]models.OptionContract, 0, len(parsed.Options.Option))
	for _, row := range parsed.Options.Option {
		expiry, err := time.Parse("2006-01-02", row.ExpirationDate)
		if err != nil {
			continue
		}
		contract := models.OptionContract{
			Symbol:       symbol,
			Expiry:       expiry,
			Strike:       row.Strike,
			Bid:          row.Bid,
			Ask:          row.Ask,
			Last:         row.Last,
			OpenInterest: row.OpenInterest,
			Volume:       row.Volume,
			IsCall:       strings.EqualFold(row.OptionType, "call"),
		}
		if row.Greeks != nil {
			contract.IV = row.Greeks.MidIV
		}
		out = append(out, contract)
	}
	return out, nil
}

type expirationsResponse struct {
	Expirations struct {
		Date []string `json:"date"`
	} `json:"expirations"`
}

type chainResponse struct {
	Options struct {
		Option []chainRow `json:"option"`
	} `json:"options"`
}

type chainRow struct {
	ExpirationDate string  `json:"expiration_date"`
	Strike         float64 `json:"strike"`
	OptionType     string  `json:"option_type"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Last           float64 `json:"last"`
	OpenInterest   int64   `json:"open_interest"`
	Volume         int64   `json:"volume"`
	Greeks         *struct {
		Delta float64 `json:"delta"`
		MidIV float64 `json:"mid_iv"`
	} `json:"greeks"`
}
