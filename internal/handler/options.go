package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantassist/internal/options"
	"quantassist/internal/screener"
)

type OptionsHandler struct {
	Engine   *options.Engine
	Screener *screener.Service
	Logger   *zap.Logger

	// DefaultUniverse backs scan-ideas requests without an explicit one.
	DefaultUniverse []string
}

func (h *OptionsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/options")
	group.GET("/best-trades", h.bestTrades)
	group.GET("/idea", h.idea)
	group.POST("/scan-ideas", h.scanIdeas)
	group.POST("/portfolio-suggestions", h.portfolioSuggestions)
}

// @Summary Option candidates near a target delta
// @Tags options
// @Param symbol query string true "ticker, e.g. AAPL"
// @Param buying_power query number false "available buying power"
// @Param target_abs_delta query number false "target |delta| (0.05-0.5)"
// @Param min_dte query int false "minimum days to expiry"
// @Param max_dte query int false "maximum days to expiry"
// @Param limit query int false "max candidates (1-20)"
// @Success 200 {object} options.BestTradesResult
// @Router /api/options/best-trades [get]
func (h *OptionsHandler) bestTrades(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		BadRequest(c, "symbol is required")
		return
	}
	buyingPower, ok := decimalQuery(c, "buying_power", decimal.NewFromInt(5000))
	if !ok || buyingPower.IsNegative() {
		BadRequest(c, "buying_power must be a number >= 0")
		return
	}
	targetAbsDelta, ok := floatQuery(c, "target_abs_delta", 0.25)
	if !ok || targetAbsDelta < 0.05 || targetAbsDelta > 0.5 {
		BadRequest(c, "target_abs_delta must be between 0.05 and 0.5")
		return
	}
	minDTE, ok := intQuery(c, "min_dte", 7)
	if !ok || minDTE < 1 {
		BadRequest(c, "min_dte must be an integer >= 1")
		return
	}
	maxDTE, ok := intQuery(c, "max_dte", 45)
	if !ok || maxDTE < 5 {
		BadRequest(c, "max_dte must be an integer >= 5")
		return
	}
	limit, ok := intQuery(c, "limit", 8)
	if !ok || limit < 1 || limit > 20 {
		BadRequest(c, "limit must be between 1 and 20")
		return
	}
	res := h.Engine.BestTrades(c.Request.Context(), symbol, buyingPower, targetAbsDelta, minDTE, maxDTE, limit)
	c.JSON(http.StatusOK, res)
}

// @Summary Single best idea for a symbol
// @Tags options
// @Param symbol query string true "ticker"
// @Param buying_power query number false "available buying power"
// @Success 200 {object} models.Idea
// @Router /api/options/idea [get]
func (h *OptionsHandler) idea(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		BadRequest(c, "symbol is required")
		return
	}
	buyingPower, ok := decimalQuery(c, "buying_power", decimal.NewFromInt(5000))
	if !ok || buyingPower.IsNegative() {
		BadRequest(c, "buying_power must be a number >= 0")
		return
	}
	c.JSON(http.StatusOK, h.Engine.BuildIdea(c.Request.Context(), symbol, buyingPower))
}

type scanIdeasRequest struct {
	BuyingPower decimal.Decimal `json:"buying_power"`
	Universe    []string        `json:"universe"`
}

// @Summary Ranked ideas over a symbol universe
// @Tags options
// @Param request body scanIdeasRequest true "scan parameters"
// @Success 200 {object} screener.IdeasResult
// @Router /api/options/scan-ideas [post]
func (h *OptionsHandler) scanIdeas(c *gin.Context) {
	var req scanIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.BuyingPower.IsNegative() {
		BadRequest(c, "buying_power must be >= 0")
		return
	}
	universe := normalizeSymbols(req.Universe)
	if len(universe) == 0 {
		universe = h.DefaultUniverse
	}
	if len(universe) == 0 {
		BadRequest(c, "universe is empty and no default is configured")
		return
	}
	c.JSON(http.StatusOK, h.Screener.ScanIdeas(c.Request.Context(), universe, req.BuyingPower))
}

type portfolioPosition struct {
	Symbol    string   `json:"symbol"`
	Shares    float64  `json:"shares"`
	CostBasis *float64 `json:"cost_basis"`
}

type portfolioSuggestionsRequest struct {
	BuyingPower decimal.Decimal     `json:"buying_power"`
	Goal        string              `json:"goal"`
	Positions   []portfolioPosition `json:"positions"`
}

// @Summary Ideas for the caller's current positions
// @Tags options
// @Param request body portfolioSuggestionsRequest true "positions and buying power"
// @Success 200 {object} screener.IdeasResult
// @Router /api/options/portfolio-suggestions [post]
func (h *OptionsHandler) portfolioSuggestions(c *gin.Context) {
	var req portfolioSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.BuyingPower.IsNegative() {
		BadRequest(c, "buying_power must be >= 0")
		return
	}
	symbols := make([]string, 0, len(req.Positions))
	for _, p := range req.Positions {
		symbols = append(symbols, p.Symbol)
	}
	universe := normalizeSymbols(symbols)
	if len(universe) == 0 {
		BadRequest(c, "positions must include at least one symbol")
		return
	}
	if h.Logger != nil {
		h.Logger.Info("building portfolio suggestions",
			zap.Int("positions", len(universe)),
			zap.String("goal", req.Goal))
	}
	c.JSON(http.StatusOK, h.Screener.ScanIdeas(c.Request.Context(), universe, req.BuyingPower))
}

// normalizeSymbols trims, upper-cases and deduplicates while keeping
// first-seen order.
func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
