package marketdata

import (
	"context"
	"fmt"
	"time"

	"quantassist/internal/client/tradier"
	"quantassist/internal/models"
)

// TradierChainSource is the brokerage fallback behind the Yahoo chain
// source. It is skipped entirely when no token is configured.
type TradierChainSource struct {
	Client *tradier.Client
}

func (s *TradierChainSource) Name() string { return "tradier" }

func (s *TradierChainSource) FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error) {
	if !s.Client.Configured() {
		return nil, fmt.Errorf("tradier token not configured")
	}
	expirations, err := s.Client.Expirations(ctx, symbol)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	book := &models.ChainBook{Symbol: symbol}
	for _, expiry := range expirations {
		dte := daysToExpiry(expiry, now)
		if dte < minDTE || dte > maxDTE {
			continue
		}
		book.Expiries = append(book.Expiries, expiry)
		rows, err := s.Client.Chain(ctx, symbol, expiry)
		if err != nil {
			continue
		}
		chain := models.ChainExpiry{Expiry: expiry, DTE: dte}
		for _, row := range rows {
			if row.IsCall {
				chain.Calls = append(chain.Calls, row)
			} else {
				chain.Puts = append(chain.Puts, row)
			}
		}
		if len(chain.Calls) > 0 || len(chain.Puts) > 0 {
			book.Chains = append(book.Chains, chain)
		}
	}
	if len(book.Chains) == 0 {
		return book, fmt.Errorf("no usable chains for %s", symbol)
	}
	return book, nil
}
