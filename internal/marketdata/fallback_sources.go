package marketdata

import (
	"context"
	"fmt"

	"quantassist/internal/client/alphavantage"
	"quantassist/internal/client/stooq"
	"quantassist/internal/models"
)

// StooqHistorySource is the keyless history fallback.
type StooqHistorySource struct {
	Client *stooq.Client
}

func (s *StooqHistorySource) Name() string { return "stooq" }

func (s *StooqHistorySource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	return s.Client.DailyHistory(ctx, symbol, days)
}

// AlphaVantageHistorySource is the last-resort history fallback; it
// reports itself unavailable when no API key is configured.
type AlphaVantageHistorySource struct {
	Client *alphavantage.Client
}

func (s *AlphaVantageHistorySource) Name() string { return "alphavantage" }

func (s *AlphaVantageHistorySource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	if !s.Client.Configured() {
		return nil, fmt.Errorf("alphavantage: no api key configured")
	}
	return s.Client.DailyHistory(ctx, symbol, days)
}
