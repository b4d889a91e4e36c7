package montecarlo

import (
	"math"
	"testing"
	"time"

	"quantassist/internal/models"
)

func walkSeries(n int, step float64) *models.Series {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		candles[i] = models.Candle{Date: start.AddDate(0, 0, i), Close: price, Volume: 1_000_000}
		price *= 1 + step
	}
	return &models.Series{Symbol: "WALK", Candles: candles}
}

func TestEstimateDailyMuSigma(t *testing.T) {
	mu, sigma, err := EstimateDailyMuSigma(walkSeries(100, 0.01))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Constant 1% growth: log-return is ln(1.01) every day, zero variance.
	if math.Abs(mu-math.Log(1.01)) > 1e-9 {
		t.Fatalf("mu = %v, want %v", mu, math.Log(1.01))
	}
	if sigma > 1e-9 {
		t.Fatalf("sigma = %v, want 0", sigma)
	}
}

func TestEstimateDailyMuSigmaInsufficient(t *testing.T) {
	_, _, err := EstimateDailyMuSigma(walkSeries(10, 0.01))
	if err != ErrInsufficientHistory {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestSimulateOptionPLDegenerate(t *testing.T) {
	base := OptionPLConfig{Spot: 100, Strike: 100, Premium: 2, Days: 30, IsCall: true, SigmaDaily: 0.02, NPaths: 100}

	zeroPaths := base
	zeroPaths.NPaths = 0
	if res := SimulateOptionPL(zeroPaths); res != nil {
		t.Fatalf("n_paths=0 should yield nil, got %+v", res)
	}
	zeroDays := base
	zeroDays.Days = 0
	if res := SimulateOptionPL(zeroDays); res != nil {
		t.Fatalf("days=0 should yield nil, got %+v", res)
	}
}

func TestSimulateOptionPLDeterministicWithSeed(t *testing.T) {
	seed := int64(7)
	cfg := OptionPLConfig{
		Spot: 100, Strike: 105, Premium: 1.50, Days: 20, IsCall: true,
		MuDaily: 0.0005, SigmaDaily: 0.02, NPaths: 1000, Seed: &seed,
	}
	a := SimulateOptionPL(cfg)
	b := SimulateOptionPL(cfg)
	if a == nil || b == nil {
		t.Fatalf("expected results")
	}
	if a.PLp5 != b.PLp5 || a.PLp50 != b.PLp50 || a.PLp95 != b.PLp95 || a.ProbProfit != b.ProbProfit {
		t.Fatalf("seeded runs differ: %+v vs %+v", a, b)
	}
	if a.PLp5 > a.PLp50 || a.PLp50 > a.PLp95 {
		t.Fatalf("percentiles out of order: %+v", a)
	}
	// Long option: loss bounded by the premium paid.
	if a.PLp5 < -cfg.Premium-1e-9 {
		t.Fatalf("p5 below max loss: %v", a.PLp5)
	}
}

func TestSimulateOptionPLOutcomesDownsampled(t *testing.T) {
	seed := int64(1)
	cfg := OptionPLConfig{
		Spot: 100, Strike: 100, Premium: 2, Days: 30, IsCall: true,
		SigmaDaily: 0.02, NPaths: 5000, Seed: &seed,
	}
	res := SimulateOptionPL(cfg)
	if res == nil {
		t.Fatalf("expected result")
	}
	if len(res.Outcomes) != defaultPlotSamples {
		t.Fatalf("outcomes len = %d, want %d", len(res.Outcomes), defaultPlotSamples)
	}
}

func TestSimulatePathsBarrierTouch(t *testing.T) {
	seed := int64(3)
	barrier := 100.0 // at the spot: every upward first step touches
	cfg := PathConfig{Spot: 100, Mu: 0.05, Sigma: 0.2, Days: 30, NPaths: 500, Barrier: &barrier, Seed: &seed}
	res := SimulatePaths(cfg)
	if res == nil || res.ProbTouch == nil {
		t.Fatalf("expected barrier probability")
	}
	if *res.ProbTouch <= 0 || *res.ProbTouch > 1 {
		t.Fatalf("prob touch = %v", *res.ProbTouch)
	}
	if len(res.TerminalPrices) != defaultPlotSamples {
		t.Fatalf("terminal prices len = %d, want %d", len(res.TerminalPrices), defaultPlotSamples)
	}
}

func TestSimulatePathsDegenerate(t *testing.T) {
	if res := SimulatePaths(PathConfig{Spot: 100, Days: 0, NPaths: 10}); res != nil {
		t.Fatalf("days=0 should yield nil")
	}
	if res := SimulatePaths(PathConfig{Spot: 0, Days: 10, NPaths: 10}); res != nil {
		t.Fatalf("spot=0 should yield nil")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	if got := percentile(sorted, 50); got != 3 {
		t.Fatalf("p50 = %v, want 3", got)
	}
	if got := percentile(sorted, 0); got != 1 {
		t.Fatalf("p0 = %v, want 1", got)
	}
	if got := percentile(sorted, 100); got != 5 {
		t.Fatalf("p100 = %v, want 5", got)
	}
}
