package options

import (
	"math"

	"github.com/shopspring/decimal"
)

// Confidence scores a contract 0-100 with additive point buckets. The
// buckets are a liquidity heuristic, not a statistical estimate.
func Confidence(c ContractView, buyingPower decimal.Decimal) int {
	score := 0

	switch {
	case c.OpenInterest >= 500:
		score += 25
	case c.OpenInterest >= 100:
		score += 15
	case c.OpenInterest >= 50:
		score += 8
	}

	switch {
	case c.Volume >= 100:
		score += 20
	case c.Volume >= 10:
		score += 10
	}

	if c.IV > 1e-6 {
		score += 15
	}

	if c.Delta != nil {
		if ad := math.Abs(*c.Delta); ad >= 0.1 && ad <= 0.6 {
			score += 20
		}
	}

	if buyingPower.IsPositive() {
		cost := ContractCost(c.MidPrice)
		if cost.LessThanOrEqual(buyingPower.Mul(decimal.NewFromFloat(0.2))) {
			score += 20
		} else if cost.LessThanOrEqual(buyingPower.Mul(decimal.NewFromFloat(0.5))) {
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ContractView is the slice of contract fields confidence scoring needs.
type ContractView struct {
	MidPrice     float64
	IV           float64
	Delta        *float64
	OpenInterest int64
	Volume       int64
}

// ContractCost is the premium for one round-lot contract (100 shares).
func ContractCost(midPrice float64) decimal.Decimal {
	return decimal.NewFromFloat(midPrice).Mul(decimal.NewFromInt(100))
}
