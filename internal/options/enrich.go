// Package options turns raw chain rows into analytics-bearing contract
// records and picks the best candidate per symbol.
package options

import (
	"math"
	"time"

	"quantassist/internal/models"
	"quantassist/internal/pricing"
)

// Enrich computes mid-price, delta, breakeven and probability analytics
// for raw rows at one expiry. Rows failing the positive mid/strike/spot
// guard are discarded; siblings are unaffected.
func Enrich(spot float64, expiry time.Time, rows []models.OptionContract, riskFreeRate float64, now time.Time) []models.EnrichedContract {
	if len(rows) == 0 || !(spot > 0) || math.IsNaN(spot) {
		return nil
	}
	t := yearsToExpiry(expiry, now)

	out := make([]models.EnrichedContract, 0, len(rows))
	for _, row := range rows {
		mid := midPrice(row)
		if mid <= 0 || row.Strike <= 0 {
			continue
		}
		sigma := math.Max(row.IV, pricing.MinIV)

		var delta float64
		var breakeven float64
		typ := "PUT"
		if row.IsCall {
			typ = "CALL"
			delta = pricing.CallDelta(spot, row.Strike, t, riskFreeRate, sigma)
			breakeven = row.Strike + mid
		} else {
			delta = pricing.PutDelta(spot, row.Strike, t, riskFreeRate, sigma)
			breakeven = row.Strike - mid
		}

		enriched := models.EnrichedContract{
			Expiry:       row.Expiry,
			Type:         typ,
			Strike:       round4(row.Strike),
			MidPrice:     round4(mid),
			IV:           sigma,
			Breakeven:    round4(breakeven),
			OpenInterest: row.OpenInterest,
			Volume:       row.Volume,
		}
		if !math.IsNaN(delta) {
			d := round4(delta)
			enriched.Delta = &d
		}
		if probAbove := pricing.ProbAbove(spot, row.Strike, t, riskFreeRate, sigma); !math.IsNaN(probAbove) {
			p := probAbove
			enriched.ProbAboveStrike = &p
		}
		// Probability of profit: terminal price on the profitable side
		// of breakeven.
		if breakeven > 0 {
			above := pricing.ProbAbove(spot, breakeven, t, riskFreeRate, sigma)
			if !math.IsNaN(above) {
				p := above
				if !row.IsCall {
					p = 1 - above
				}
				enriched.ProbProfit = &p
			}
		}
		out = append(out, enriched)
	}
	return out
}

func midPrice(row models.OptionContract) float64 {
	if row.Bid > 0 || row.Ask > 0 {
		return (row.Bid + row.Ask) / 2
	}
	return row.Last
}

func yearsToExpiry(expiry time.Time, now time.Time) float64 {
	days := expiry.Sub(now).Hours() / 24
	// Same-day expiries still get one day of time value.
	return math.Max(days/365.0, 1.0/365.0)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
