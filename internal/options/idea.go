package options

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantassist/internal/indicator"
	"quantassist/internal/marketdata"
	"quantassist/internal/models"
	"quantassist/internal/montecarlo"
	"quantassist/internal/pricing"
)

// Engine composes the gateway, pricing and simulation layers into the
// per-symbol recommendation pipeline.
type Engine struct {
	Gateway *marketdata.Gateway
	Logger  *zap.Logger

	RiskFreeRate   float64
	TargetAbsDelta float64
	MinDTE         int
	MaxDTE         int
	MinOpenInt     int64
	MinVolume      int64
	SimPaths       int
}

// BestTradesResult is the /best-trades response payload.
type BestTradesResult struct {
	Symbol         string                    `json:"symbol"`
	Price          *float64                  `json:"price"`
	TargetAbsDelta float64                   `json:"target_abs_delta"`
	MinDTE         int                       `json:"min_dte"`
	MaxDTE         int                       `json:"max_dte"`
	Note           string                    `json:"note,omitempty"`
	Candidates     []models.EnrichedContract `json:"candidates"`
}

// BestTrades fetches, enriches and ranks candidates near the target
// |delta| within the DTE window, deduplicated by expiry and type.
func (e *Engine) BestTrades(ctx context.Context, symbol string, buyingPower decimal.Decimal, targetAbsDelta float64, minDTE, maxDTE, limit int) BestTradesResult {
	book := e.Gateway.FetchChain(ctx, symbol, marketdata.Window{MinDTE: minDTE, MaxDTE: maxDTE})
	result := BestTradesResult{
		Symbol:         symbol,
		Price:          book.Price,
		TargetAbsDelta: targetAbsDelta,
		MinDTE:         minDTE,
		MaxDTE:         maxDTE,
		Note:           book.Note,
	}
	if len(book.Chains) == 0 || book.Price == nil || *book.Price <= 0 {
		if result.Note == "" {
			result.Note = "No option data available."
		}
		return result
	}

	pool := e.enrichBook(book)
	ranked, err := Select(pool, SelectParams{
		BuyingPower:    buyingPower,
		TargetAbsDelta: targetAbsDelta,
		MinOpenInt:     e.MinOpenInt,
		MinVolume:      e.MinVolume,
	})
	if err != nil {
		if result.Note == "" {
			result.Note = err.Error()
		}
		return result
	}

	seen := map[string]bool{}
	for _, c := range ranked {
		key := c.Expiry.Format("2006-01-02") + "|" + c.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		result.Candidates = append(result.Candidates, c)
		if len(result.Candidates) >= limit {
			break
		}
	}
	return result
}

// BuildIdea produces the single best recommendation for a symbol: an
// option near the target delta with a simulated P/L distribution, or a
// plain-shares fallback when no contract survives the filters.
func (e *Engine) BuildIdea(ctx context.Context, symbol string, buyingPower decimal.Decimal) *models.Idea {
	series := e.Gateway.FetchDaily(ctx, symbol, 365)
	trend := indicator.AssessTrend(series)
	if trend.Symbol == "" {
		trend.Symbol = symbol
	}

	book := e.Gateway.FetchChain(ctx, symbol, marketdata.Window{MinDTE: e.MinDTE, MaxDTE: e.MaxDTE})
	spot := 0.0
	if book.Price != nil {
		spot = *book.Price
	}
	if spot <= 0 {
		spot = series.LastClose()
	}
	if spot <= 0 {
		return &models.Idea{
			Symbol: symbol,
			Mode:   models.IdeaShares,
			Trend:  &trend,
			Note:   firstNonEmpty(book.Note, "no price available for "+symbol),
		}
	}

	if len(book.Chains) > 0 {
		pool := e.enrichBook(book)
		best, err := Best(pool, SelectParams{
			BuyingPower:    buyingPower,
			TargetAbsDelta: e.TargetAbsDelta,
			MinOpenInt:     e.MinOpenInt,
			MinVolume:      e.MinVolume,
		})
		if err == nil {
			return e.optionIdea(ctx, symbol, spot, *best, series, trend, buyingPower, book.Note)
		}
		if e.Logger != nil {
			e.Logger.Info("no option candidate, falling back to shares",
				zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return e.sharesIdea(symbol, spot, series, trend, book.Note)
}

func (e *Engine) enrichBook(book *models.ChainBook) []models.EnrichedContract {
	spot := 0.0
	if book.Price != nil {
		spot = *book.Price
	}
	now := time.Now().UTC()
	var pool []models.EnrichedContract
	for _, chain := range book.Chains {
		pool = append(pool, Enrich(spot, chain.Expiry, chain.Calls, e.RiskFreeRate, now)...)
		pool = append(pool, Enrich(spot, chain.Expiry, chain.Puts, e.RiskFreeRate, now)...)
	}
	return pool
}

func (e *Engine) optionIdea(ctx context.Context, symbol string, spot float64, best models.EnrichedContract, series *models.Series, trend models.TrendAssessment, buyingPower decimal.Decimal, note string) *models.Idea {
	idea := &models.Idea{
		Symbol:       symbol,
		UnderPrice:   spot,
		Mode:         models.IdeaOption,
		Suggestion:   &best,
		CostEstimate: ContractCost(best.MidPrice).StringFixed(2),
		Trend:        &trend,
		Confidence:   best.Confidence,
		Note:         note,
	}

	days := int(time.Until(best.Expiry).Hours() / 24)
	if days < 1 {
		days = 1
	}
	if mu, sigma, err := montecarlo.EstimateDailyMuSigma(series); err == nil {
		paths := e.SimPaths
		if paths <= 0 {
			paths = 2000
		}
		idea.Sim = montecarlo.SimulateOptionPL(montecarlo.OptionPLConfig{
			Spot:       spot,
			Strike:     best.Strike,
			Premium:    best.MidPrice,
			Days:       days,
			IsCall:     best.Type == "CALL",
			MuDaily:    mu,
			SigmaDaily: sigma,
			NPaths:     paths,
		})
	} else if e.Logger != nil {
		e.Logger.Info("skipping P/L simulation", zap.String("symbol", symbol), zap.Error(err))
	}

	idea.Reasoning = rationale(best, trend)
	return idea
}

func (e *Engine) sharesIdea(symbol string, spot float64, series *models.Series, trend models.TrendAssessment, note string) *models.Idea {
	idea := &models.Idea{
		Symbol:     symbol,
		UnderPrice: spot,
		Mode:       models.IdeaShares,
		Trend:      &trend,
		Confidence: 30,
		Note:       note,
		Reasoning: []string{
			"Fallback to shares due to thin/expensive options or rate limits.",
			"Used up to 1 year of daily returns to estimate a 20-day probability of gain.",
		},
	}
	mu, sigma, err := montecarlo.EstimateDailyMuSigma(series)
	if err != nil {
		idea.Reasoning = append(idea.Reasoning, "Not enough history for a probability estimate.")
		return idea
	}
	const horizon = 20.0
	muT := mu * horizon
	sigT := sigma * math.Sqrt(horizon)
	pUp := 0.5
	if sigT > 0 {
		pUp = pricing.NormCDF(muT / sigT)
	}
	idea.ShareProbUp = &pUp
	idea.Confidence = int(math.Max(30, math.Min(80, pUp*100)))
	idea.Reasoning = append(idea.Reasoning, fmt.Sprintf(
		"Over ~20 trading days there is about a %.1f%% chance the price ends higher than today.", pUp*100))
	return idea
}

func rationale(c models.EnrichedContract, trend models.TrendAssessment) []string {
	out := make([]string, 0, 4)
	if c.Type == "CALL" {
		out = append(out,
			"Directional long CALL near the target delta (balanced risk/reward).",
			"Breakeven = strike + premium; benefits from upside moves.",
			"Risk limited to paid premium.")
		if c.ProbAboveStrike != nil {
			out = append(out, fmt.Sprintf("Risk-neutral P(S_T > K) ~= %.1f%%.", *c.ProbAboveStrike*100))
		}
	} else {
		out = append(out,
			"Directional long PUT near the target delta (balanced risk/reward).",
			"Breakeven = strike - premium; benefits from downside moves.",
			"Risk limited to paid premium.")
		if c.ProbAboveStrike != nil {
			out = append(out, fmt.Sprintf("Risk-neutral P(S_T < K) ~= %.1f%%.", (1-*c.ProbAboveStrike)*100))
		}
	}
	out = append(out, fmt.Sprintf("Trend reads %s (score %.2f).", trend.Trend, trend.Score))
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
