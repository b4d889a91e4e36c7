// Package montecarlo estimates option P/L distributions and terminal
// price paths under geometric Brownian motion with drift/volatility
// fitted from trailing daily log-returns.
package montecarlo

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"quantassist/internal/models"
)

const (
	// Minimum daily closes required for a return-based estimate.
	minObservations = 30

	tradingDaysPerYear = 252.0

	// Down-sample cap for outcome arrays shipped to the frontend.
	defaultPlotSamples = 300
)

var ErrInsufficientHistory = errors.New("insufficient history for return statistics")

// EstimateDailyMuSigma fits mean and standard deviation of daily
// log-returns from a close series. Fewer than 30 observations is an
// "insufficient data" condition, not a numeric answer.
func EstimateDailyMuSigma(series *models.Series) (mu, sigma float64, err error) {
	closes := series.Closes()
	if len(closes) < minObservations {
		return 0, 0, ErrInsufficientHistory
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < minObservations-1 {
		return 0, 0, ErrInsufficientHistory
	}
	for _, r := range returns {
		mu += r
	}
	mu /= float64(len(returns))
	var ss float64
	for _, r := range returns {
		d := r - mu
		ss += d * d
	}
	sigma = math.Sqrt(ss / float64(len(returns)))
	return mu, sigma, nil
}

// OptionPLConfig drives a terminal-price P/L simulation for one contract.
// MuDaily/SigmaDaily are per-trading-day log-return parameters.
type OptionPLConfig struct {
	Spot       float64
	Strike     float64
	Premium    float64
	Days       int
	IsCall     bool
	MuDaily    float64
	SigmaDaily float64
	NPaths     int
	Seed       *int64
}

// SimulateOptionPL draws independent GBM terminal prices and returns the
// payoff distribution (5/50/95 percentiles plus probability of profit).
// Degenerate inputs yield nil rather than a crash.
func SimulateOptionPL(cfg OptionPLConfig) *models.SimulationResult {
	if cfg.NPaths <= 0 || cfg.Days <= 0 || cfg.Spot <= 0 || cfg.Strike <= 0 {
		return nil
	}
	rng := newRNG(cfg.Seed)
	t := float64(cfg.Days)
	drift := (cfg.MuDaily - 0.5*cfg.SigmaDaily*cfg.SigmaDaily) * t
	scale := cfg.SigmaDaily * math.Sqrt(t)

	payoffs := make([]float64, cfg.NPaths)
	profitable := 0
	for i := 0; i < cfg.NPaths; i++ {
		st := cfg.Spot * math.Exp(drift+scale*rng.NormFloat64())
		var payoff float64
		if cfg.IsCall {
			payoff = math.Max(st-cfg.Strike, 0) - cfg.Premium
		} else {
			payoff = math.Max(cfg.Strike-st, 0) - cfg.Premium
		}
		payoffs[i] = payoff
		if payoff > 0 {
			profitable++
		}
	}

	sorted := append([]float64(nil), payoffs...)
	sort.Float64s(sorted)
	return &models.SimulationResult{
		PLp5:       percentile(sorted, 5),
		PLp50:      percentile(sorted, 50),
		PLp95:      percentile(sorted, 95),
		ProbProfit: float64(profitable) / float64(cfg.NPaths),
		Outcomes:   Downsample(payoffs, defaultPlotSamples),
	}
}

// PathConfig drives a daily-step price path simulation. Mu/Sigma are
// annualized; steps use dt = 1/252.
type PathConfig struct {
	Spot    float64
	Mu      float64
	Sigma   float64
	Days    int
	NPaths  int
	Barrier *float64
	Seed    *int64
}

// SimulatePaths walks full daily paths so barrier touches anywhere along
// the path are observable, then summarizes the terminal distribution.
func SimulatePaths(cfg PathConfig) *models.PathSimulation {
	if cfg.NPaths <= 0 || cfg.Days <= 0 || cfg.Spot <= 0 {
		return nil
	}
	rng := newRNG(cfg.Seed)
	dt := 1.0 / tradingDaysPerYear
	drift := (cfg.Mu - 0.5*cfg.Sigma*cfg.Sigma) * dt
	scale := cfg.Sigma * math.Sqrt(dt)

	terminal := make([]float64, cfg.NPaths)
	touched := 0
	for i := 0; i < cfg.NPaths; i++ {
		price := cfg.Spot
		hit := false
		for d := 0; d < cfg.Days; d++ {
			price *= math.Exp(drift + scale*rng.NormFloat64())
			if cfg.Barrier != nil && !hit {
				if *cfg.Barrier >= cfg.Spot && price >= *cfg.Barrier {
					hit = true
				} else if *cfg.Barrier < cfg.Spot && price <= *cfg.Barrier {
					hit = true
				}
			}
		}
		terminal[i] = price
		if hit {
			touched++
		}
	}

	sorted := append([]float64(nil), terminal...)
	sort.Float64s(sorted)
	out := &models.PathSimulation{
		TerminalP5:     percentile(sorted, 5),
		TerminalP50:    percentile(sorted, 50),
		TerminalP95:    percentile(sorted, 95),
		MuAnnual:       cfg.Mu,
		SigmaAnnual:    cfg.Sigma,
		TerminalPrices: Downsample(terminal, defaultPlotSamples),
	}
	if cfg.Barrier != nil {
		p := float64(touched) / float64(cfg.NPaths)
		out.ProbTouch = &p
	}
	return out
}

// Downsample keeps at most n elements via uniform index selection,
// preserving the distributional shape without shipping the full array.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}

func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

// percentile expects sorted input and interpolates linearly, matching
// the numpy default.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
