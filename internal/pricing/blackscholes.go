// Package pricing holds stateless Black-Scholes analytics. Every function
// is pure; degenerate inputs yield NaN instead of panicking, so callers
// must check math.IsNaN before using a result.
package pricing

import "math"

// MinIV is the implied-volatility floor applied by callers to avoid
// division by zero in d1/d2.
const MinIV = 1e-6

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// D1 computes (ln(S/K) + (r + sigma^2/2)T) / (sigma sqrt(T)).
func D1(s, k, t, r, sigma float64) float64 {
	if s <= 0 || k <= 0 || sigma <= 0 || t <= 0 {
		return math.NaN()
	}
	return (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
}

// D2 computes d1 - sigma sqrt(T).
func D2(d1, sigma, t float64) float64 {
	if math.IsNaN(d1) || sigma <= 0 || t <= 0 {
		return math.NaN()
	}
	return d1 - sigma*math.Sqrt(t)
}

// CallDelta is Phi(d1).
func CallDelta(s, k, t, r, sigma float64) float64 {
	d1 := D1(s, k, t, r, sigma)
	if math.IsNaN(d1) {
		return math.NaN()
	}
	return NormCDF(d1)
}

// PutDelta is Phi(d1) - 1.
func PutDelta(s, k, t, r, sigma float64) float64 {
	cd := CallDelta(s, k, t, r, sigma)
	if math.IsNaN(cd) {
		return math.NaN()
	}
	return cd - 1.0
}

// ProbAbove is the risk-neutral probability that the terminal price
// exceeds the threshold x: Phi((ln(S/x) + (r - sigma^2/2)T) / (sigma sqrt(T))).
func ProbAbove(s, x, t, r, sigma float64) float64 {
	if s <= 0 || x <= 0 || sigma <= 0 || t <= 0 {
		return math.NaN()
	}
	d := (math.Log(s/x) + (r-0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	return NormCDF(d)
}
