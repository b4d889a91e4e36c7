// Package screener implements the market-wide surfaces: sector
// performance, top movers, technical scans and ranked trade ideas.
package screener

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quantassist/internal/marketdata"
	"quantassist/internal/options"
)

// Service bundles the data gateway and the idea engine behind the
// screener endpoints. All methods degrade to notes instead of errors.
type Service struct {
	Gateway *marketdata.Gateway
	Engine  *options.Engine
	Logger  *zap.Logger

	// PaceDelay spaces per-symbol live fetches to stay polite with
	// the upstream vendors.
	PaceDelay time.Duration
	// MaxIdeas caps the ranked idea lists (sector ideas, scan ideas).
	MaxIdeas int
}

func (s *Service) maxIdeas() int {
	if s.MaxIdeas > 0 {
		return s.MaxIdeas
	}
	return 3
}

// pace sleeps PaceDelay unless the request context is done first.
func (s *Service) pace(ctx context.Context) {
	if s.PaceDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.PaceDelay):
	}
}
