// Package marketdata is the gateway between the analytics pipeline and
// the external data vendors. Providers sit behind small capability
// interfaces and are tried in a fixed priority order with uniform
// failure handling, so retry/backoff logic lives in one place.
package marketdata

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"quantassist/internal/client/tradier"
	"quantassist/internal/client/yahoo"
	"quantassist/internal/models"
)

// ChainSource fetches an options chain book for a symbol within a
// days-to-expiry window.
type ChainSource interface {
	Name() string
	FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error)
}

// HistorySource fetches daily close history.
type HistorySource interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error)
}

// QuoteSource fetches batch quotes (used by the screener).
type QuoteSource interface {
	Name() string
	FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// GainersSource fetches the vendor's top-gainers list.
type GainersSource interface {
	Name() string
	FetchGainers(ctx context.Context, count int) ([]models.Quote, error)
}

// NewsSource fetches recent headlines for a symbol.
type NewsSource interface {
	Name() string
	FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// RateLimitNote is the advisory surfaced when a provider throttles us.
const RateLimitNote = "Rate limited by data source (HTTP 429). Please wait ~1-2 minutes or reduce refresh frequency."

// rateLimited recognizes throttling by status code or body substring,
// across provider error types.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}
	if yahoo.RateLimited(err) {
		return true
	}
	var tradierErr *tradier.APIError
	if errors.As(err, &tradierErr) && tradierErr.Status == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests")
}

func daysToExpiry(expiry time.Time, now time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(n).Hours() / 24)
}
