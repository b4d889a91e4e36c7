package screener

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const moversLimit = 12

// Mover is one top-gainers row in the legacy response shape.
type Mover struct {
	Ticker           string  `json:"ticker"`
	Price            float64 `json:"price"`
	ChangePercentage string  `json:"change_percentage"`
	Name             string  `json:"name"`
}

type MoversResult struct {
	TopGainers []Mover `json:"top_gainers"`
	Note       string  `json:"note,omitempty"`
}

// TopMovers returns up to 12 of the day's biggest gainers.
func (s *Service) TopMovers(ctx context.Context) MoversResult {
	result := MoversResult{TopGainers: []Mover{}}
	quotes, err := s.Gateway.FetchGainers(ctx, 24)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("top gainers unavailable", zap.Error(err))
		}
		result.Note = "top gainers unavailable"
		return result
	}
	for _, q := range quotes {
		if q.Price == nil || q.ChangePct == nil {
			continue
		}
		name := q.Name
		if name == "" {
			name = q.Symbol
		}
		result.TopGainers = append(result.TopGainers, Mover{
			Ticker:           q.Symbol,
			Price:            *q.Price,
			ChangePercentage: fmt.Sprintf("%.2f%%", *q.ChangePct),
			Name:             name,
		})
		if len(result.TopGainers) >= moversLimit {
			break
		}
	}
	return result
}
