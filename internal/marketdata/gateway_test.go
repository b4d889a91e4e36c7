package marketdata

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quantassist/internal/models"
)

type stubChainSource struct {
	name  string
	calls int
	fn    func(minDTE, maxDTE int) (*models.ChainBook, error)
}

func (s *stubChainSource) Name() string { return s.name }

func (s *stubChainSource) FetchChain(ctx context.Context, symbol string, minDTE, maxDTE int) (*models.ChainBook, error) {
	s.calls++
	return s.fn(minDTE, maxDTE)
}

type stubHistorySource struct {
	series *models.Series
	err    error
}

func (s *stubHistorySource) Name() string { return "stub" }

func (s *stubHistorySource) FetchDaily(ctx context.Context, symbol string, days int) (*models.Series, error) {
	return s.series, s.err
}

func bookWithOneChain(symbol string) *models.ChainBook {
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
				Symbol: symbol, Expiry: expiry, Strike: 100, Bid: 2.4, Ask: 2.6, IV: 0.3, IsCall: true,
			}},
		}},
	}
}

func TestFetchChainFallsBackAcrossSources(t *testing.T) {
	failing := &stubChainSource{name: "primary", fn: func(_, _ int) (*models.ChainBook, error) {
		return nil, fmt.Errorf("provider down")
	}}
	working := &stubChainSource{name: "secondary", fn: func(_, _ int) (*models.ChainBook, error) {
		return bookWithOneChain("AAPL"), nil
	}}
	g := &Gateway{Chains: []ChainSource{failing, working}, Cache: NewCache(time.Minute)}

	book := g.FetchChain(context.Background(), "AAPL", Window{21, 45})
	if len(book.Chains) != 1 {
		t.Fatalf("chains = %d, want 1", len(book.Chains))
	}
	if failing.calls == 0 {
		t.Fatalf("primary source was never tried")
	}
	if book.Note != "" {
		t.Fatalf("unexpected note %q on success", book.Note)
	}
}

func TestFetchChainWidensWindow(t *testing.T) {
	var windows []Window
	source := &stubChainSource{name: "only", fn: func(minDTE, maxDTE int) (*models.ChainBook, error) {
		windows = append(windows, Window{minDTE, maxDTE})
		if minDTE == 30 && maxDTE == 90 {
			return bookWithOneChain("MSFT"), nil
		}
		return &models.ChainBook{Symbol: "MSFT"}, fmt.Errorf("no usable chains")
	}}
	g := &Gateway{Chains: []ChainSource{source}, Cache: NewCache(time.Minute)}

	book := g.FetchChain(context.Background(), "MSFT", Window{21, 45})
	if len(book.Chains) != 1 {
		t.Fatalf("expected chains after widening, note=%q", book.Note)
	}
	want := []Window{{21, 45}, {14, 60}, {30, 90}}
	if len(windows) != len(want) {
		t.Fatalf("windows tried = %v, want %v", windows, want)
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Fatalf("window %d = %v, want %v", i, windows[i], want[i])
		}
	}
	if book.Note == "" {
		t.Fatalf("expected a widened-window note")
	}
}

func TestFetchChainAllFailYieldsTypedEmpty(t *testing.T) {
	source := &stubChainSource{name: "broken", fn: func(_, _ int) (*models.ChainBook, error) {
		return nil, fmt.Errorf("boom")
	}}
	g := &Gateway{Chains: []ChainSource{source}, Cache: NewCache(time.Minute)}

	book := g.FetchChain(context.Background(), "XXXX", Window{21, 45})
	if book == nil {
		t.Fatalf("book must never be nil")
	}
	if len(book.Chains) != 0 || book.Note == "" {
		t.Fatalf("want empty chains with note, got %+v", book)
	}
}

func TestFetchChainRateLimitNote(t *testing.T) {
	source := &stubChainSource{name: "limited", fn: func(_, _ int) (*models.ChainBook, error) {
		return nil, fmt.Errorf("upstream said 429 Too Many Requests")
	}}
	g := &Gateway{Chains: []ChainSource{source}, Cache: NewCache(time.Minute)}

	book := g.FetchChain(context.Background(), "NVDA", Window{21, 45})
	if book.Note != RateLimitNote {
		t.Fatalf("note = %q, want rate-limit note", book.Note)
	}
}

func TestFetchChainKeepsPartialBookOnRateLimit(t *testing.T) {
	source := &stubChainSource{name: "limited", fn: func(_, _ int) (*models.ChainBook, error) {
		return bookWithOneChain("AAPL"), fmt.Errorf("chain expiry: 429 Too Many Requests")
	}}
	g := &Gateway{Chains: []ChainSource{source}, Cache: NewCache(time.Minute)}

	book := g.FetchChain(context.Background(), "AAPL", Window{21, 45})
	if len(book.Chains) != 1 {
		t.Fatalf("chains = %d, want the partial fetch served", len(book.Chains))
	}
	if book.Note != RateLimitNote {
		t.Fatalf("note = %q, want rate-limit note alongside the chains", book.Note)
	}
	if source.calls != 1 {
		t.Fatalf("calls = %d, want no window widening once chains came back", source.calls)
	}
}

func TestFetchDailyFallsBack(t *testing.T) {
	bad := &stubHistorySource{err: fmt.Errorf("down")}
	good := &stubHistorySource{series: &models.Series{
		Symbol:  "AAPL",
		Candles: []models.Candle{{Date: time.Now(), Close: 190, Volume: 1}},
	}}
	g := &Gateway{Histories: []HistorySource{bad, good}, Cache: NewCache(time.Minute)}

	series := g.FetchDaily(context.Background(), "AAPL", 30)
	if series == nil || series.LastClose() != 190 {
		t.Fatalf("expected fallback series, got %+v", series)
	}
}

func TestCacheTTLAndSweep(t *testing.T) {
	cache := NewCache(10 * time.Millisecond)
	cache.Set("k", 42)
	if v, ok := cache.Get("k"); !ok || v.(int) != 42 {
		t.Fatalf("expected cached value")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
	if removed := cache.Sweep(); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if cache.Len() != 0 {
		t.Fatalf("cache should be empty after sweep")
	}
}

func TestMockChainDeterministic(t *testing.T) {
	m := &MockSource{Seed: 42}
	a, err := m.FetchChain(context.Background(), "AAPL", 21, 45)
	if err != nil {
		t.Fatalf("mock chain failed: %v", err)
	}
	b, _ := m.FetchChain(context.Background(), "AAPL", 21, 45)
	if len(a.Chains) == 0 || len(a.Chains[0].Calls) != len(b.Chains[0].Calls) {
		t.Fatalf("mock chains differ between runs")
	}
	if *a.Price != *b.Price {
		t.Fatalf("mock price differs: %v vs %v", *a.Price, *b.Price)
	}
	for _, c := range a.Chains[0].Calls {
		if c.Strike <= 0 || c.Ask < c.Bid {
			t.Fatalf("malformed mock contract: %+v", c)
		}
	}
}
