package marketdata

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"quantassist/internal/models"
)

// Mock sources produce deterministic fixtures for offline development
// and tests ("mock" data mode). The per-symbol RNG is seeded from the
// configured seed plus the symbol so repeated requests agree.

type MockSource struct {
	Seed int64
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return rand.New(rand.NewSource(m.Seed + int64(h.Sum64()&0x7fffffff)))
}

// FetchDaily produces a 160-business-day random walk around 100.
func (m *MockSource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	n := 160
	if days > n {
		n = days
	}
	rng := m.rng(symbol)
	price := 100.0
	series := &models.Series{Symbol: symbol}
	date := businessDaysAgo(time.Now().UTC(), n)
	for i := 0; i < n; i++ {
		price *= 1 + (rng.Float64()*0.04 - 0.02)
		series.Candles = append(series.Candles, models.Candle{
			Date:   date,
			Close:  price,
			Volume: 500_000 + rng.Int63n(4_500_000),
		})
		date = nextBusinessDay(date)
	}
	if days > 0 && len(series.Candles) > days {
		series.Candles = series.Candles[len(series.Candles)-days:]
	}
	return series, nil
}

// FetchChain produces one expiry in the middle of the window with a
// strike ladder around the mock spot.
func (m *MockSource) FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error) {
	rng := m.rng(symbol)
	series, _ := m.FetchDaily(ctx, symbol, 5)
	spot := series.LastClose()

	dte := (minDTE + maxDTE) / 2
	if dte < 1 {
		dte = 1
	}
	expiry := time.Now().UTC().AddDate(0, 0, dte)
	expiry = time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)

	chain := models.ChainExpiry{Expiry: expiry, DTE: dte}
	for _, pct := range []float64{0.90, 0.95, 1.00, 1.05, 1.10} {
		strike := roundTo(spot*pct, 1)
		iv := 0.25 + rng.Float64()*0.15
		callMid := spot * 0.03 * (1.2 - pct + 0.5)
		putMid := spot * 0.03 * (pct - 0.8 + 0.1)
		chain.Calls = append(chain.Calls, mockRow(symbol, expiry, strike, callMid, iv, true, rng))
		chain.Puts = append(chain.Puts, mockRow(symbol, expiry, strike, putMid, iv, false, rng))
	}

	return &models.ChainBook{
		Symbol:   symbol,
		Price:    &spot,
		Expiries: []time.Time{expiry},
		Chains:   []models.ChainExpiry{chain},
	}, nil
}

func mockRow(symbol string, expiry time.Time, strike, mid, iv float64, isCall bool, rng *rand.Rand) models.OptionContract {
	if mid < 0.05 {
		mid = 0.05
	}
	spread := mid * 0.08
	return models.OptionContract{
		Symbol:       symbol,
		Expiry:       expiry,
		Strike:       strike,
		Bid:          roundTo(mid-spread/2, 2),
		Ask:          roundTo(mid+spread/2, 2),
		Last:         roundTo(mid, 2),
		IV:           iv,
		OpenInterest: 100 + rng.Int63n(2000),
		Volume:       10 + rng.Int63n(500),
		IsCall:       isCall,
	}
}

// FetchQuotes yields quotes with small deterministic day changes.
func (m *MockSource) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	now := time.Now().UTC()
	out := make([]models.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		rng := m.rng(symbol)
		price := 20 + rng.Float64()*400
		change := rng.Float64()*6 - 3
		out = append(out, models.Quote{
			Symbol:    symbol,
			Price:     &price,
			ChangePct: &change,
			Name:      symbol,
			AsOf:      now,
		})
	}
	return out, nil
}

// FetchGainers fabricates a small mover list.
func (m *MockSource) FetchGainers(ctx context.Context, count int) ([]models.Quote, error) {
	symbols := []string{"MOCK", "FAKE", "TEST", "DEMO", "SAMP"}
	if count > 0 && count < len(symbols) {
		symbols = symbols[:count]
	}
	quotes, _ := m.FetchQuotes(ctx, symbols)
	for i := range quotes {
		up := 1.5 + float64(len(quotes)-i)
		quotes[i].ChangePct = &up
	}
	return quotes, nil
}

// FetchNews fabricates placeholder headlines.
func (m *MockSource) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 2
	}
	out := make([]models.NewsItem, 0, limit)
	for i := 0; i < limit && i < 2; i++ {
		out = append(out, models.NewsItem{
			Symbol:    symbol,
			Title:     symbol + " sample headline",
			Publisher: "Mock Wire",
		})
	}
	return out, nil
}

func businessDaysAgo(from time.Time, n int) time.Time {
	date := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for n > 0 {
		date = date.AddDate(0, 0, -1)
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return date
}

func nextBusinessDay(date time.Time) time.Time {
	for {
		date = date.AddDate(0, 0, 1)
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return date
		}
	}
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
