package screener

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"quantassist/internal/models"
)

// sectorUniverse fixes the tickers considered for each sector's idea
// list. Small and liquid on purpose: every symbol here carries an
// options chain worth enriching.
var sectorUniverse = map[string][]string{
	"Technology":             {"AAPL", "MSFT", "NVDA", "AMD", "AVGO", "CRM", "ADBE", "QCOM"},
	"Communication Services": {"META", "GOOGL", "NFLX", "DIS"},
	"Consumer Discretionary": {"AMZN", "TSLA", "HD", "NKE"},
	"Consumer Staples":       {"WMT", "COST", "PEP", "PG"},
	"Health Care":            {"LLY", "UNH", "JNJ", "MRK", "PFE"},
	"Industrials":            {"CAT", "BA", "UNP", "GE"},
	"Financials":             {"JPM", "BAC", "V", "MA", "GS"},
	"Energy":                 {"XOM", "CVX", "SLB"},
	"Materials":              {"LIN", "APD", "FCX"},
	"Utilities":              {"NEE", "DUK", "SO"},
	"Real Estate":            {"PLD", "AMT", "EQIX"},
}

// SectorIdeasResult is the sector click-through payload: the top ideas
// plus a few headlines for the chosen symbols.
type SectorIdeasResult struct {
	Sector string            `json:"sector"`
	Ideas  []*models.Idea    `json:"ideas"`
	News   []models.NewsItem `json:"news"`
	Note   string            `json:"note,omitempty"`
}

// IdeasResult is the universe-scan payload.
type IdeasResult struct {
	Ideas []*models.Idea `json:"ideas"`
	Note  string         `json:"note,omitempty"`
}

// SectorIdeas builds an idea per ticker in the sector's universe and
// returns the strongest ones with related headlines.
func (s *Service) SectorIdeas(ctx context.Context, sector string, buyingPower decimal.Decimal) SectorIdeasResult {
	sector = strings.TrimSpace(sector)
	result := SectorIdeasResult{Sector: sector, Ideas: []*models.Idea{}, News: []models.NewsItem{}}
	universe, ok := sectorUniverse[sector]
	if !ok {
		result.Note = "Unknown or unsupported sector."
		return result
	}
	result.Ideas = s.buildIdeas(ctx, universe, buyingPower)
	result.News = s.newsFor(ctx, result.Ideas)
	return result
}

// ScanIdeas runs the idea pipeline over an arbitrary universe.
func (s *Service) ScanIdeas(ctx context.Context, universe []string, buyingPower decimal.Decimal) IdeasResult {
	result := IdeasResult{Ideas: s.buildIdeas(ctx, universe, buyingPower)}
	if len(result.Ideas) == 0 {
		result.Note = "No ideas could be built for the requested universe."
	}
	return result
}

func (s *Service) buildIdeas(ctx context.Context, universe []string, buyingPower decimal.Decimal) []*models.Idea {
	ideas := make([]*models.Idea, 0, len(universe))
	for _, symbol := range universe {
		if ctx.Err() != nil {
			break
		}
		idea := s.Engine.BuildIdea(ctx, symbol, buyingPower)
		if idea != nil && idea.UnderPrice > 0 {
			ideas = append(ideas, idea)
		}
		s.pace(ctx)
	}
	rankIdeas(ideas)
	if len(ideas) > s.maxIdeas() {
		ideas = ideas[:s.maxIdeas()]
	}
	return ideas
}

// rankIdeas orders by confidence, then by simulated median P/L, then
// by the shares-mode upside probability.
func rankIdeas(ideas []*models.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		a, b := ideas[i], ideas[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if am, bm := medianPL(a), medianPL(b); am != bm {
			return am > bm
		}
		return shareProb(a) > shareProb(b)
	})
}

func medianPL(idea *models.Idea) float64 {
	if idea.Sim != nil {
		return idea.Sim.PLp50
	}
	return -9999
}

func shareProb(idea *models.Idea) float64 {
	if idea.ShareProbUp != nil {
		return *idea.ShareProbUp
	}
	return 0
}

// newsFor fetches up to four headlines, two per chosen symbol.
func (s *Service) newsFor(ctx context.Context, ideas []*models.Idea) []models.NewsItem {
	const newsLimit = 4
	out := []models.NewsItem{}
	for _, idea := range ideas {
		items := s.Gateway.FetchNews(ctx, idea.Symbol, 2)
		out = append(out, items...)
		if len(out) >= newsLimit {
			out = out[:newsLimit]
			break
		}
	}
	return out
}
