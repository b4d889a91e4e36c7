package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quantassist/internal/screener"
)

type ScreenerHandler struct {
	Service *screener.Service
	Logger  *zap.Logger
}

func (h *ScreenerHandler) Register(r *gin.Engine) {
	group := r.Group("/api/screener")
	group.GET("/sectors", h.sectors)
	group.GET("/top-movers", h.topMovers)
	group.GET("/scan", h.scan)
	group.GET("/sector-ideas", h.sectorIdeas)
}

// @Summary Sector performance via SPDR ETFs
// @Tags screener
// @Success 200 {object} screener.SectorsResult
// @Router /api/screener/sectors [get]
func (h *ScreenerHandler) sectors(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Sectors(c.Request.Context()))
}

// @Summary Day's top gainers
// @Tags screener
// @Success 200 {object} screener.MoversResult
// @Router /api/screener/top-movers [get]
func (h *ScreenerHandler) topMovers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.TopMovers(c.Request.Context()))
}

// @Summary Technical scan over a symbol list
// @Tags screener
// @Param symbols query string true "comma-separated tickers"
// @Param min_volume query int false "minimum daily volume"
// @Param include_history query bool false "embed close/volume arrays"
// @Param history_days query int false "history window (30-400)"
// @Success 200 {object} screener.ScanResult
// @Router /api/screener/scan [get]
func (h *ScreenerHandler) scan(c *gin.Context) {
	symbols := symbolList(c.Query("symbols"))
	if len(symbols) == 0 {
		BadRequest(c, "symbols is required")
		return
	}
	minVolume, ok := int64Query(c, "min_volume", 1_000_000)
	if !ok || minVolume < 0 {
		BadRequest(c, "min_volume must be an integer >= 0")
		return
	}
	historyDays, ok := intQuery(c, "history_days", 180)
	if !ok || historyDays < 30 || historyDays > 400 {
		BadRequest(c, "history_days must be between 30 and 400")
		return
	}
	includeHistory := boolQueryDefault(c, "include_history", true)
	c.JSON(http.StatusOK, h.Service.Scan(c.Request.Context(), symbols, minVolume, includeHistory, historyDays))
}

// @Summary Top ideas for a sector, with headlines
// @Tags screener
// @Param sector query string true "sector name"
// @Param buying_power query number false "available buying power"
// @Success 200 {object} screener.SectorIdeasResult
// @Router /api/screener/sector-ideas [get]
func (h *ScreenerHandler) sectorIdeas(c *gin.Context) {
	sector := strings.TrimSpace(c.Query("sector"))
	if sector == "" {
		BadRequest(c, "sector is required")
		return
	}
	buyingPower, ok := decimalQuery(c, "buying_power", decimal.NewFromInt(3000))
	if !ok || buyingPower.IsNegative() {
		BadRequest(c, "buying_power must be a number >= 0")
		return
	}
	c.JSON(http.StatusOK, h.Service.SectorIdeas(c.Request.Context(), sector, buyingPower))
}
