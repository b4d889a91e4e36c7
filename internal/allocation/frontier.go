// Package allocation approximates the efficient frontier by random
// search over long-only portfolios. It is not a convex optimizer.
package allocation

import (
	"math"
	"math/rand"
	"sort"
)

// Portfolio is one sampled weight vector with its statistics.
type Portfolio struct {
	Weights []float64 `json:"weights"`
	Mu      float64   `json:"mu"`
	Vol     float64   `json:"vol"`
	Sharpe  float64   `json:"sharpe"`
}

// SampleFrontier draws nSamples portfolios from the symmetric
// Dirichlet(1,...,1) distribution over the long-only simplex, scores each
// against the supplied mean-return vector and covariance matrix, and
// returns the topN by Sharpe ratio.
func SampleFrontier(expReturns []float64, cov [][]float64, nSamples, topN int, seed *int64) []Portfolio {
	n := len(expReturns)
	if n == 0 || nSamples <= 0 || topN <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seedOrRandom(seed)))

	out := make([]Portfolio, 0, nSamples)
	for i := 0; i < nSamples; i++ {
		w := dirichletUniform(rng, n)
		mu := dot(w, expReturns)
		vol := math.Sqrt(quadraticForm(w, cov))
		sharpe := 0.0
		if vol > 0 {
			sharpe = mu / vol
		}
		out = append(out, Portfolio{Weights: w, Mu: mu, Vol: vol, Sharpe: sharpe})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sharpe > out[j].Sharpe })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// dirichletUniform draws from Dirichlet with concentration 1 for each
// asset: unit-rate exponentials normalized to sum to one.
func dirichletUniform(rng *rand.Rand, n int) []float64 {
	w := make([]float64, n)
	sum := 0.0
	for i := range w {
		w[i] = rng.ExpFloat64()
		sum += w[i]
	}
	if sum == 0 {
		for i := range w {
			w[i] = 1.0 / float64(n)
		}
		return w
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		if i < len(b) {
			total += a[i] * b[i]
		}
	}
	return total
}

// quadraticForm computes w' C w, tolerating ragged input by treating
// missing covariance entries as zero.
func quadraticForm(w []float64, cov [][]float64) float64 {
	total := 0.0
	for i := range w {
		if i >= len(cov) {
			continue
		}
		row := cov[i]
		for j := range w {
			if j < len(row) {
				total += w[i] * row[j] * w[j]
			}
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

func seedOrRandom(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return rand.Int63()
}
