package options

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quantassist/internal/marketdata"
	"quantassist/internal/models"
)

// fixtureChainSource serves one hand-built chain book.
type fixtureChainSource struct {
	book *models.ChainBook
}

func (f *fixtureChainSource) Name() string { return "fixture" }

func (f *fixtureChainSource) FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error) {
	return f.book, nil
}

type fixtureHistorySource struct {
	series *models.Series
}

func (f *fixtureHistorySource) Name() string { return "fixture" }

func (f *fixtureHistorySource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	return f.series, nil
}

func atmBook(symbol string) *models.ChainBook {
	price := 100.0
	expiry := time.Now().UTC().AddDate(0, 0, 30)
	return &models.ChainBook{
		Symbol:   symbol,
		Price:    &price,
		Expiries: []time.Time{expiry},
		Chains: []models.ChainExpiry{{
			Expiry: expiry,
			DTE:    30,
			Calls: []models.OptionContract{{
				Symbol: symbol, Expiry: expiry, Strike: 100, Bid: 2.4, Ask: 2.6,
				IV: 0.30, OpenInterest: 500, Volume: 100, IsCall: true,
			}},
		}},
	}
}

func upwardSeries(symbol string, n int) *models.Series {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := &models.Series{Symbol: symbol}
	price := 80.0
	for i := 0; i < n; i++ {
		// Steady drift with alternating jitter so sigma stays nonzero.
		if i%2 == 0 {
			price *= 1.004
		} else {
			price *= 1.0005
		}
		s.Candles = append(s.Candles, models.Candle{Date: start.AddDate(0, 0, i), Close: price, Volume: 1_000_000})
	}
	return s
}

func testEngine(book *models.ChainBook, series *models.Series) *Engine {
	return &Engine{
		Gateway: &marketdata.Gateway{
			Chains:    []marketdata.ChainSource{&fixtureChainSource{book: book}},
			Histories: []marketdata.HistorySource{&fixtureHistorySource{series: series}},
			Cache:     marketdata.NewCache(time.Minute),
		},
		RiskFreeRate:   0,
		TargetAbsDelta: 0.25,
		MinDTE:         21,
		MaxDTE:         45,
		MinOpenInt:     50,
		MinVolume:      10,
		SimPaths:       500,
	}
}

func TestBestTradesEndToEnd(t *testing.T) {
	e := testEngine(atmBook("AAPL"), upwardSeries("AAPL", 120))
	res := e.BestTrades(context.Background(), "AAPL", decimal.NewFromInt(5000), 0.25, 21, 45, 8)
	if len(res.Candidates) != 1 {
		t.Fatalf("candidates = %d (note %q), want 1", len(res.Candidates), res.Note)
	}
	c := res.Candidates[0]
	if c.Type != "CALL" || c.Strike != 100 || c.MidPrice != 2.5 {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if c.Delta == nil || *c.Delta <= 0.5 || *c.Delta >= 0.55 {
		// ATM with sigma=0.30, T=30/365, r=0: Phi(d1) computes to ~0.517.
		t.Fatalf("delta = %v, want just above 0.5", c.Delta)
	}
	if c.Confidence <= 0 {
		t.Fatalf("confidence should be scored, got %d", c.Confidence)
	}
}

func TestBestTradesUnaffordableNote(t *testing.T) {
	book := atmBook("AAPL")
	book.Chains[0].Calls[0].Bid = 90
	book.Chains[0].Calls[0].Ask = 92
	e := testEngine(book, upwardSeries("AAPL", 120))
	res := e.BestTrades(context.Background(), "AAPL", decimal.NewFromInt(1000), 0.25, 21, 45, 8)
	if len(res.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(res.Candidates))
	}
	if res.Note == "" {
		t.Fatalf("expected an explanatory note")
	}
}

func TestBuildIdeaOptionWithSimulation(t *testing.T) {
	e := testEngine(atmBook("AAPL"), upwardSeries("AAPL", 120))
	idea := e.BuildIdea(context.Background(), "AAPL", decimal.NewFromInt(5000))
	if idea.Mode != models.IdeaOption {
		t.Fatalf("mode = %s, want OPTION (note %q)", idea.Mode, idea.Note)
	}
	if idea.Suggestion == nil || idea.Sim == nil {
		t.Fatalf("expected suggestion and simulation, got %+v", idea)
	}
	if idea.Sim.PLp5 > idea.Sim.PLp50 || idea.Sim.PLp50 > idea.Sim.PLp95 {
		t.Fatalf("sim percentiles out of order: %+v", idea.Sim)
	}
	if idea.CostEstimate != "250.00" {
		t.Fatalf("cost estimate = %q, want 250.00", idea.CostEstimate)
	}
	if len(idea.Reasoning) == 0 {
		t.Fatalf("expected rationale strings")
	}
}

func TestBuildIdeaSharesFallback(t *testing.T) {
	book := atmBook("AAPL")
	book.Chains = nil // no usable chains at all
	e := testEngine(book, upwardSeries("AAPL", 120))
	idea := e.BuildIdea(context.Background(), "AAPL", decimal.NewFromInt(5000))
	if idea.Mode != models.IdeaShares {
		t.Fatalf("mode = %s, want SHARES", idea.Mode)
	}
	if idea.ShareProbUp == nil || *idea.ShareProbUp <= 0.5 {
		t.Fatalf("upward series should read > 0.5 probability, got %v", idea.ShareProbUp)
	}
	if idea.Confidence < 30 || idea.Confidence > 80 {
		t.Fatalf("shares confidence out of band: %d", idea.Confidence)
	}
}
