package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quantassist/internal/marketdata"
	"quantassist/internal/models"
	"quantassist/internal/options"
)

type stubQuotes struct {
	quotes []models.Quote
	err    error
}

func (s *stubQuotes) Name() string { return "stub" }

func (s *stubQuotes) FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	return s.quotes, s.err
}

type stubGainers struct {
	quotes []models.Quote
	err    error
}

func (s *stubGainers) Name() string { return "stub" }

func (s *stubGainers) FetchGainers(ctx context.Context, count int) ([]models.Quote, error) {
	return s.quotes, s.err
}

type stubHistory struct {
	bySymbol map[string]*models.Series
}

func (s *stubHistory) Name() string { return "stub" }

func (s *stubHistory) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	return s.bySymbol[symbol], nil
}

type stubNews struct {
	items []models.NewsItem
}

func (s *stubNews) Name() string { return "stub" }

func (s *stubNews) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	out := make([]models.NewsItem, 0, limit)
	for i := 0; i < limit && i < len(s.items); i++ {
		item := s.items[i]
		item.Symbol = symbol
		out = append(out, item)
	}
	return out, nil
}

func fptr(v float64) *float64 { return &v }

func trendingSeries(symbol string, n int, drift float64) *models.Series {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := &models.Series{Symbol: symbol}
	price := 100.0
	for i := 0; i < n; i++ {
		factor := drift
		if i%2 == 0 {
			factor += 0.001
		}
		price *= 1 + factor
		s.Candles = append(s.Candles, models.Candle{Date: start.AddDate(0, 0, i), Close: price, Volume: 2_000_000})
	}
	return s
}

func newService(gw *marketdata.Gateway) *Service {
	return &Service{
		Gateway: gw,
		Engine: &options.Engine{
			Gateway:        gw,
			TargetAbsDelta: 0.25,
			MinDTE:         21,
			MaxDTE:         45,
			MinOpenInt:     50,
			MinVolume:      10,
			SimPaths:       200,
		},
		MaxIdeas: 3,
	}
}

func TestSectorsFormatting(t *testing.T) {
	gw := &marketdata.Gateway{
		Quotes: []marketdata.QuoteSource{&stubQuotes{quotes: []models.Quote{
			{Symbol: "XLK", ChangePct: fptr(1.234)},
			{Symbol: "XLE", ChangePct: fptr(-0.5)},
			{Symbol: "XLF"}, // no change -> omitted
		}}},
		Cache: marketdata.NewCache(time.Minute),
	}
	res := newService(gw).Sectors(context.Background())
	if got := res.Performance["Technology"]; got != "1.23%" {
		t.Fatalf("Technology = %q, want 1.23%%", got)
	}
	if got := res.Performance["Energy"]; got != "-0.50%" {
		t.Fatalf("Energy = %q, want -0.50%%", got)
	}
	if _, ok := res.Performance["Financials"]; ok {
		t.Fatalf("Financials should be omitted without a change value")
	}
	if res.AsOf == "" {
		t.Fatalf("as_of missing")
	}
}

func TestSectorsDegradesToNote(t *testing.T) {
	gw := &marketdata.Gateway{
		Quotes: []marketdata.QuoteSource{&stubQuotes{err: errors.New("boom")}},
		Cache:  marketdata.NewCache(time.Minute),
	}
	res := newService(gw).Sectors(context.Background())
	if len(res.Performance) != 0 || res.Note == "" {
		t.Fatalf("want empty map with note, got %+v", res)
	}
}

func TestTopMoversShapeAndLimit(t *testing.T) {
	var quotes []models.Quote
	for i := 0; i < 20; i++ {
		quotes = append(quotes, models.Quote{
			Symbol:    "SYM",
			Price:     fptr(10),
			ChangePct: fptr(5.5),
			Name:      "Some Co",
		})
	}
	quotes = append(quotes, models.Quote{Symbol: "NOPRICE"})
	gw := &marketdata.Gateway{
		Gainers: []marketdata.GainersSource{&stubGainers{quotes: quotes}},
		Cache:   marketdata.NewCache(time.Minute),
	}
	res := newService(gw).TopMovers(context.Background())
	if len(res.TopGainers) != 12 {
		t.Fatalf("len = %d, want 12", len(res.TopGainers))
	}
	if res.TopGainers[0].ChangePercentage != "5.50%" {
		t.Fatalf("change = %q", res.TopGainers[0].ChangePercentage)
	}
}

func TestScanRowsAndOrdering(t *testing.T) {
	gw := &marketdata.Gateway{
		Histories: []marketdata.HistorySource{&stubHistory{bySymbol: map[string]*models.Series{
			"UP":   trendingSeries("UP", 120, 0.003),
			"DOWN": trendingSeries("DOWN", 120, -0.003),
		}}},
		Cache: marketdata.NewCache(time.Minute),
	}
	res := newService(gw).Scan(context.Background(), []string{"DOWN", "UP", "MISSING"}, 1_000_000, true, 90)
	if len(res.Results) != 2 {
		t.Fatalf("len = %d, want 2 (missing symbol skipped)", len(res.Results))
	}
	if res.Results[0].Symbol != "UP" {
		t.Fatalf("expected UP ranked first, got %s", res.Results[0].Symbol)
	}
	up := res.Results[0]
	if !up.Signals.TrendUp || up.Mom5d <= 0 {
		t.Fatalf("uptrend signals wrong: %+v", up.Signals)
	}
	if !up.Signals.MeetsMinVolume {
		t.Fatalf("volume 2M should meet the 1M bar")
	}
	if len(up.Closes) != 90 || len(up.Volumes) != 90 {
		t.Fatalf("history tail = %d/%d, want 90", len(up.Closes), len(up.Volumes))
	}
	down := res.Results[1]
	if down.Signals.TrendUp || down.Score >= up.Score {
		t.Fatalf("downtrend should score below uptrend")
	}
}

func TestScanOmitsHistoryWhenDisabled(t *testing.T) {
	gw := &marketdata.Gateway{
		Histories: []marketdata.HistorySource{&stubHistory{bySymbol: map[string]*models.Series{
			"UP": trendingSeries("UP", 120, 0.003),
		}}},
		Cache: marketdata.NewCache(time.Minute),
	}
	res := newService(gw).Scan(context.Background(), []string{"UP"}, 0, false, 90)
	if len(res.Results) != 1 || res.Results[0].Closes != nil {
		t.Fatalf("closes should be omitted when include_history is off")
	}
}

func TestSectorIdeasUnknownSector(t *testing.T) {
	gw := &marketdata.Gateway{Cache: marketdata.NewCache(time.Minute)}
	res := newService(gw).SectorIdeas(context.Background(), "Cryptozoology", decimal.NewFromInt(3000))
	if len(res.Ideas) != 0 || res.Note == "" {
		t.Fatalf("unknown sector should return empty ideas with a note, got %+v", res)
	}
}

func TestScanIdeasRankAndNews(t *testing.T) {
	histories := &stubHistory{bySymbol: map[string]*models.Series{
		"AAA": trendingSeries("AAA", 120, 0.004),
		"BBB": trendingSeries("BBB", 120, 0.001),
	}}
	gw := &marketdata.Gateway{
		Histories: []marketdata.HistorySource{histories},
		News:      []marketdata.NewsSource{&stubNews{items: []models.NewsItem{{Title: "headline"}, {Title: "other"}}}},
		Cache:     marketdata.NewCache(time.Minute),
	}
	svc := newService(gw)
	res := svc.ScanIdeas(context.Background(), []string{"AAA", "BBB"}, decimal.NewFromInt(3000))
	if len(res.Ideas) != 2 {
		t.Fatalf("ideas = %d, want 2", len(res.Ideas))
	}
	for _, idea := range res.Ideas {
		if idea.Mode != models.IdeaShares {
			t.Fatalf("no chains wired, expected shares mode, got %s", idea.Mode)
		}
	}
	if res.Ideas[0].Confidence < res.Ideas[1].Confidence {
		t.Fatalf("ideas not sorted by confidence: %d < %d", res.Ideas[0].Confidence, res.Ideas[1].Confidence)
	}

	news := svc.newsFor(context.Background(), res.Ideas)
	if len(news) == 0 || len(news) > 4 {
		t.Fatalf("news length out of bounds: %d", len(news))
	}
}
