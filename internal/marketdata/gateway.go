package marketdata

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quantassist/internal/models"
)

// Window is a days-to-expiry search window.
type Window struct {
	MinDTE int
	MaxDTE int
}

// wideningWindows is the escalating DTE search sequence applied when
// every provider fails on the requested window.
var wideningWindows = []Window{{14, 60}, {30, 90}}

// Gateway tries providers in priority order and never raises to the
// caller: every failure path degrades to a well-typed result with an
// advisory note.
type Gateway struct {
	Chains    []ChainSource
	Histories []HistorySource
	Quotes    []QuoteSource
	Gainers   []GainersSource
	News      []NewsSource
	Cache     *Cache
	Logger    *zap.Logger

	// Retries per provider attempt; backoff grows linearly.
	MaxRetries   int
	RetryBackoff time.Duration
}

// FetchChain returns the chain book for a symbol. All provider errors
// are converted into the Note field; the result is always usable.
func (g *Gateway) FetchChain(ctx context.Context, symbol string, window Window) *models.ChainBook {
	key := fmt.Sprintf("chain|%s|%d|%d", symbol, window.MinDTE, window.MaxDTE)
	if cached, ok := g.Cache.Get(key); ok {
		if book, ok := cached.(*models.ChainBook); ok {
			return book
		}
	}

	note := ""
	windows := append([]Window{window}, wideningWindows...)
	var lastBook *models.ChainBook
	for wi, w := range windows {
		for _, source := range g.Chains {
			book, err := g.tryChain(ctx, source, symbol, w)
			if book != nil && book.Price != nil {
				lastBook = book
			}
			if err != nil {
				if rateLimited(err) {
					note = RateLimitNote
				}
				if g.Logger != nil {
					g.Logger.Warn("chain source failed",
						zap.String("source", source.Name()),
						zap.String("symbol", symbol),
						zap.Int("min_dte", w.MinDTE),
						zap.Int("max_dte", w.MaxDTE),
						zap.Error(err))
				}
				// A book with chains is still served; one throttled or
				// broken expiry must not discard the rest.
				if book == nil || len(book.Chains) == 0 {
					continue
				}
			}
			if book != nil && len(book.Chains) > 0 {
				if wi > 0 && note == "" {
					note = fmt.Sprintf("No chains in requested window; widened to %d-%d DTE.", w.MinDTE, w.MaxDTE)
				}
				book.Note = note
				g.ensurePrice(ctx, book)
				g.Cache.Set(key, book)
				return book
			}
		}
	}

	if note == "" {
		note = "No option data returned (provider error). Try again later."
	}
	book := &models.ChainBook{Symbol: symbol, Note: note}
	if lastBook != nil {
		book.Price = lastBook.Price
		book.Expiries = lastBook.Expiries
	}
	g.ensurePrice(ctx, book)
	return book
}

func (g *Gateway) tryChain(ctx context.Context, source ChainSource, symbol string, w Window) (*models.ChainBook, error) {
	var lastErr error
	var lastBook *models.ChainBook
	attempts := g.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := g.RetryBackoff
			if backoff <= 0 {
				backoff = 300 * time.Millisecond
			}
			select {
			case <-ctx.Done():
				return lastBook, ctx.Err()
			case <-time.After(time.Duration(i) * backoff):
			}
		}
		book, err := source.FetchChain(ctx, symbol, w.MinDTE, w.MaxDTE)
		if book != nil {
			lastBook = book
		}
		if err == nil {
			return book, nil
		}
		lastErr = err
		if !rateLimited(err) {
			// Retries are for throttling only; a hard provider error
			// moves straight to the next source.
			break
		}
	}
	return lastBook, lastErr
}

// ensurePrice fills a missing underlying price from history as a last
// resort (some chain providers do not carry the spot).
func (g *Gateway) ensurePrice(ctx context.Context, book *models.ChainBook) {
	if book == nil || (book.Price != nil && *book.Price > 0) {
		return
	}
	if series := g.FetchDaily(ctx, book.Symbol, 5); series != nil {
		if last := series.LastClose(); last > 0 {
			book.Price = &last
		}
	}
}

// FetchDaily returns daily history via the prioritized history sources,
// or nil when every provider fails.
func (g *Gateway) FetchDaily(ctx context.Context, symbol string, days int) *models.Series {
	key := fmt.Sprintf("history|%s|%d", symbol, days)
	if cached, ok := g.Cache.Get(key); ok {
		if series, ok := cached.(*models.Series); ok {
			return series
		}
	}
	for _, source := range g.Histories {
		series, err := source.FetchDaily(ctx, symbol, days)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn("history source failed",
					zap.String("source", source.Name()),
					zap.String("symbol", symbol),
					zap.Error(err))
			}
			continue
		}
		if series != nil && len(series.Candles) > 0 {
			g.Cache.Set(key, series)
			return series
		}
	}
	return nil
}

// FetchQuotes returns batch quotes, falling back across quote sources.
func (g *Gateway) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	var lastErr error
	for _, source := range g.Quotes {
		quotes, err := source.FetchQuotes(ctx, symbols)
		if err != nil {
			lastErr = err
			if g.Logger != nil {
				g.Logger.Warn("quote source failed",
					zap.String("source", source.Name()),
					zap.Error(err))
			}
			continue
		}
		return quotes, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no quote sources configured")
	}
	return nil, lastErr
}

// FetchGainers returns the vendor top-gainers list.
func (g *Gateway) FetchGainers(ctx context.Context, count int) ([]models.Quote, error) {
	key := fmt.Sprintf("gainers|%d", count)
	if cached, ok := g.Cache.Get(key); ok {
		if quotes, ok := cached.([]models.Quote); ok {
			return quotes, nil
		}
	}
	var lastErr error
	for _, source := range g.Gainers {
		quotes, err := source.FetchGainers(ctx, count)
		if err != nil {
			lastErr = err
			continue
		}
		g.Cache.Set(key, quotes)
		return quotes, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no gainers sources configured")
	}
	return nil, lastErr
}

// FetchNews returns up to limit headlines for a symbol; failures yield
// an empty list, never an error surfaced to handlers.
func (g *Gateway) FetchNews(ctx context.Context, symbol string, limit int) []models.NewsItem {
	for _, source := range g.News {
		items, err := source.FetchNews(ctx, symbol, limit)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn("news source failed",
					zap.String("source", source.Name()),
					zap.String("symbol", symbol),
					zap.Error(err))
			}
			continue
		}
		return items
	}
	return nil
}
