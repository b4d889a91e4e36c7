// Package indicator computes simple technical indicators over daily
// close series and classifies per-symbol trend.
package indicator

import "math"

// EMA returns the exponential moving average series with the pandas
// span convention (alpha = 2/(span+1), no adjust).
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the latest Wilder RSI (alpha = 1/period) for the series,
// or false when there is not enough history. A zero average loss is
// treated as RS = 0, so a flat series reads 50.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+6 {
		return 0, false
	}
	alpha := 1.0 / float64(period)
	var avgUp, avgDown float64
	first := true
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		up, down := 0.0, 0.0
		if delta > 0 {
			up = delta
		} else {
			down = -delta
		}
		if first {
			avgUp, avgDown = up, down
			first = false
			continue
		}
		avgUp = alpha*up + (1-alpha)*avgUp
		avgDown = alpha*down + (1-alpha)*avgDown
	}
	if avgUp == 0 && avgDown == 0 {
		// Flat series: gains and losses cancel out, report the midpoint.
		return 50, true
	}
	rs := 0.0
	if avgDown > 0 {
		rs = avgUp / avgDown
	}
	rsi := 100.0 - 100.0/(1.0+rs)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 0, false
	}
	return rsi, true
}

// Momentum returns the simple return over the trailing n observations,
// price[last]/price[last-n] - 1, or 0 when the series is too short.
func Momentum(values []float64, n int) float64 {
	if n <= 0 || len(values) <= n {
		return 0
	}
	base := values[len(values)-1-n]
	if base == 0 {
		return 0
	}
	return values[len(values)-1]/base - 1.0
}

// Last returns the final element, or 0 for an empty slice.
func Last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
