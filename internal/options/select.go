package options

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"quantassist/internal/models"
)

// SelectParams bounds candidate filtering and ranking.
type SelectParams struct {
	BuyingPower    decimal.Decimal
	TargetAbsDelta float64
	MinOpenInt     int64
	MinVolume      int64
}

// ErrNoCandidates reports why selection produced nothing; filters are
// never relaxed silently.
type ErrNoCandidates struct {
	Reason string
}

func (e *ErrNoCandidates) Error() string { return e.Reason }

// Select filters contracts by affordability and liquidity, scores the
// survivors, and ranks them: delta distance to target ascending, then
// confidence descending, then soonest expiry.
func Select(contracts []models.EnrichedContract, params SelectParams) ([]models.EnrichedContract, error) {
	if len(contracts) == 0 {
		return nil, &ErrNoCandidates{Reason: "no contracts in the requested window"}
	}

	affordable := 0
	survivors := make([]models.EnrichedContract, 0, len(contracts))
	for _, c := range contracts {
		if ContractCost(c.MidPrice).GreaterThan(params.BuyingPower) {
			continue
		}
		affordable++
		if c.OpenInterest < params.MinOpenInt && c.Volume < params.MinVolume {
			continue
		}
		c.Confidence = Confidence(ContractView{
			MidPrice:     c.MidPrice,
			IV:           c.IV,
			Delta:        c.Delta,
			OpenInterest: c.OpenInterest,
			Volume:       c.Volume,
		}, params.BuyingPower)
		survivors = append(survivors, c)
	}

	if len(survivors) == 0 {
		if affordable == 0 {
			return nil, &ErrNoCandidates{Reason: fmt.Sprintf("no contract affordable within buying power %s", params.BuyingPower.StringFixed(2))}
		}
		return nil, &ErrNoCandidates{Reason: "no contract meets the liquidity bar (open interest >= 50 or volume >= 10)"}
	}

	target := params.TargetAbsDelta
	sort.SliceStable(survivors, func(i, j int) bool {
		di := deltaDistance(survivors[i], target)
		dj := deltaDistance(survivors[j], target)
		if di != dj {
			return di < dj
		}
		if survivors[i].Confidence != survivors[j].Confidence {
			return survivors[i].Confidence > survivors[j].Confidence
		}
		return survivors[i].Expiry.Before(survivors[j].Expiry)
	})
	return survivors, nil
}

// Best returns the single top-ranked contract.
func Best(contracts []models.EnrichedContract, params SelectParams) (*models.EnrichedContract, error) {
	ranked, err := Select(contracts, params)
	if err != nil {
		return nil, err
	}
	return &ranked[0], nil
}

// deltaDistance treats a missing delta as effectively unrankable.
func deltaDistance(c models.EnrichedContract, target float64) float64 {
	if c.Delta == nil {
		return 999
	}
	return math.Abs(math.Abs(*c.Delta) - target)
}
