package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the brokerage-link stubs. Real brokerage
// connectivity is out of scope; these return the fixed mock shapes the
// frontend expects.
type PortfolioHandler struct{}

func (h *PortfolioHandler) Register(r *gin.Engine) {
	group := r.Group("/api/portfolio")
	group.GET("/connect-link", h.connectLink)
	group.GET("/holdings", h.holdings)
}

// @Summary Mock brokerage connect link
// @Tags portfolio
// @Param user_id query string true "internal user id"
// @Success 200 {object} map[string]any
// @Router /api/portfolio/connect-link [get]
func (h *PortfolioHandler) connectLink(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		BadRequest(c, "user_id is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mock":   true,
		"url":    "https://mock.connect/snaptrade/robinhood",
		"userId": userID,
	})
}

// @Summary Mock holdings
// @Tags portfolio
// @Param user_id query string true "internal user id"
// @Success 200 {object} map[string]any
// @Router /api/portfolio/holdings [get]
func (h *PortfolioHandler) holdings(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		BadRequest(c, "user_id is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mock": true,
		"holdings": []gin.H{
			{"symbol": "AAPL", "quantity": 10},
			{"symbol": "NVDA", "quantity": 2},
		},
	})
}
