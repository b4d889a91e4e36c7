package screener

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// sectorETFs maps GICS sector names to their SPDR sector ETF proxies;
// the live ETF change percentage stands in for sector performance.
var sectorETFs = map[string]string{
	"Materials":              "XLB",
	"Energy":                 "XLE",
	"Technology":             "XLK",
	"Consumer Discretionary": "XLY",
	"Consumer Staples":       "XLP",
	"Health Care":            "XLV",
	"Industrials":            "XLI",
	"Financials":             "XLF",
	"Utilities":              "XLU",
	"Communication Services": "XLC",
	"Real Estate":            "XLRE",
}

// SectorsResult keeps the legacy top-level key so existing dashboard
// clients keep parsing it.
type SectorsResult struct {
	Performance map[string]string `json:"Rank A: Real-Time Performance"`
	AsOf        string            `json:"as_of"`
	Note        string            `json:"note,omitempty"`
}

// Sectors returns the live percent change of each SPDR sector ETF,
// formatted as strings ("1.23%").
func (s *Service) Sectors(ctx context.Context) SectorsResult {
	result := SectorsResult{
		Performance: map[string]string{},
		AsOf:        time.Now().UTC().Format("2006-01-02T15:04:05") + "Z",
	}

	symbols := make([]string, 0, len(sectorETFs))
	for _, etf := range sectorETFs {
		symbols = append(symbols, etf)
	}
	quotes, err := s.Gateway.FetchQuotes(ctx, symbols)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("sector quotes unavailable", zap.Error(err))
		}
		result.Note = "sector performance unavailable"
		return result
	}

	changeBySymbol := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		if q.ChangePct != nil {
			changeBySymbol[q.Symbol] = *q.ChangePct
		}
	}
	for name, etf := range sectorETFs {
		chg, ok := changeBySymbol[etf]
		if !ok {
			continue
		}
		result.Performance[name] = fmt.Sprintf("%.2f%%", chg)
	}
	return result
}
