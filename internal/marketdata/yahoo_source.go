package marketdata

import (
	"context"
	"fmt"
	"time"

	"quantassist/internal/client/yahoo"
	"quantassist/internal/models"
)

// YahooChainSource adapts the raw Yahoo options endpoint to the gateway
// chain interface.
type YahooChainSource struct {
	Client *yahoo.Client
}

func (s *YahooChainSource) Name() string { return "yahoo" }

func (s *YahooChainSource) FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error) {
	front, err := s.Client.OptionChain(ctx, symbol, time.Time{})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	book := &models.ChainBook{Symbol: symbol, Price: front.Quote.RegularMarketPrice}

	valid := make([]time.Time, 0, len(front.ExpirationDates))
	for _, unix := range front.ExpirationDates {
		expiry := time.Unix(unix, 0).UTC()
		dte := daysToExpiry(expiry, now)
		if dte >= minDTE && dte <= maxDTE {
			valid = append(valid, expiry)
		}
	}
	book.Expiries = valid

	var throttled error
	for _, expiry := range valid {
		res, err := s.Client.OptionChain(ctx, symbol, expiry)
		if err != nil {
			// One bad expiry must not fail the whole fetch: remember a
			// rate limit for the caller and keep going with the rest.
			if yahoo.RateLimited(err) {
				throttled = err
			}
			continue
		}
		for _, opts := range res.Options {
			actual := time.Unix(opts.ExpirationDate, 0).UTC()
			book.Chains = append(book.Chains, models.ChainExpiry{
				Expiry: actual,
				DTE:    daysToExpiry(actual, now),
				Calls:  normalizeYahooRows(symbol, actual, opts.Calls, true),
				Puts:   normalizeYahooRows(symbol, actual, opts.Puts, false),
			})
		}
	}
	if len(book.Chains) == 0 {
		if throttled != nil {
			return book, throttled
		}
		return book, fmt.Errorf("no usable chains for %s", symbol)
	}
	// A partial book still ships; the throttle travels alongside so the
	// gateway can attach its advisory note.
	return book, throttled
}

func normalizeYahooRows(symbol string, expiry time.Time, rows []yahoo.ChainQuote, isCall bool) []models.OptionContract {
	out := make([]models.OptionContract, 0, len(rows))
	for _, row := range rows {
		contract := models.OptionContract{
			Symbol: symbol,
			Expiry: expiry,
			Strike: row.Strike,
			IsCall: isCall,
		}
		if row.Bid != nil {
			contract.Bid = *row.Bid
		}
		if row.Ask != nil {
			contract.Ask = *row.Ask
		}
		if row.LastPrice != nil {
			contract.Last = *row.LastPrice
		}
		if row.ImpliedVolatility != nil {
			contract.IV = *row.ImpliedVolatility
		}
		if row.OpenInterest != nil {
			contract.OpenInterest = *row.OpenInterest
		}
		if row.Volume != nil {
			contract.Volume = *row.Volume
		}
		out = append(out, contract)
	}
	return out
}

// YahooHistorySource adapts the chart endpoint to the history interface.
type YahooHistorySource struct {
	Client *yahoo.Client
}

func (s *YahooHistorySource) Name() string { return "yahoo" }

func (s *YahooHistorySource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	return s.Client.DailyHistory(ctx, symbol, days)
}

// YahooQuoteSource adapts the batch quote endpoint.
type YahooQuoteSource struct {
	Client *yahoo.Client
}

func (s *YahooQuoteSource) Name() string { return "yahoo" }

func (s *YahooQuoteSource) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	return s.Client.QuoteBatch(ctx, symbols)
}

// YahooGainersSource adapts the predefined day_gainers screener.
type YahooGainersSource struct {
	Client *yahoo.Client
}

func (s *YahooGainersSource) Name() string { return "yahoo" }

func (s *YahooGainersSource) FetchGainers(ctx context.Context, count int) ([]models.Quote, error) {
	return s.Client.DayGainers(ctx, count)
}

// YahooNewsSource adapts the finance search endpoint.
type YahooNewsSource struct {
	Client *yahoo.Client
}

func (s *YahooNewsSource) Name() string { return "yahoo" }

func (s *YahooNewsSource) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	return s.Client.News(ctx, symbol, limit)
}
