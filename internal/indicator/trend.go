package indicator

import (
	"fmt"
	"math"

	"quantassist/internal/models"
)

// Trend score weights and thresholds. Policy constants kept stable for
// output parity, not derived from first principles.
const (
	minTrendObservations = 50

	weightEMACross = 0.4
	weightMomentum = 0.3
	weightRSICalm  = 0.3

	trendUpThreshold   = 0.55
	trendDownThreshold = 0.35
)

// AssessTrend classifies a symbol's trend from its daily close history.
// Short or missing history returns a neutral assessment with a reason
// instead of an error.
func AssessTrend(series *models.Series) models.TrendAssessment {
	symbol := ""
	if series != nil {
		symbol = series.Symbol
	}
	closes := series.Closes()
	if len(closes) < minTrendObservations {
		return models.TrendAssessment{
			Symbol: symbol,
			Trend:  models.TrendNeutral,
			Score:  0.5,
			Notes:  []string{fmt.Sprintf("insufficient history (%d closes, need %d)", len(closes), minTrendObservations)},
		}
	}

	ema20 := Last(EMA(closes, 20))
	ema50 := Last(EMA(closes, 50))
	mom10 := Momentum(closes, 10)
	rsi, ok := RSI(closes, 14)
	if !ok {
		rsi = 50
	}

	score := 0.0
	notes := make([]string, 0, 3)
	if ema20 > ema50 {
		score += weightEMACross
		notes = append(notes, "EMA20 above EMA50")
	} else {
		notes = append(notes, "EMA20 at or below EMA50")
	}
	if mom10 > 0 {
		score += weightMomentum
		notes = append(notes, fmt.Sprintf("10-day momentum +%.2f%%", mom10*100))
	} else {
		notes = append(notes, fmt.Sprintf("10-day momentum %.2f%%", mom10*100))
	}
	calm := math.Max(0, 1.0-math.Abs(rsi-50)/50)
	score += weightRSICalm * calm
	notes = append(notes, fmt.Sprintf("RSI(14) %.1f", rsi))

	trend := models.TrendNeutral
	switch {
	case score >= trendUpThreshold:
		trend = models.TrendUp
	case score <= trendDownThreshold && (ema20 < ema50 || mom10 < 0):
		// A low score alone is not enough; "down" requires at least one
		// bearish signal so a perfectly flat series stays neutral.
		trend = models.TrendDown
	}

	return models.TrendAssessment{
		Symbol: symbol,
		Trend:  trend,
		Score:  score,
		Notes:  notes,
	}
}
