package handler

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quantassist/internal/marketdata"
	"quantassist/internal/montecarlo"
)

type SimulatorHandler struct {
	Gateway *marketdata.Gateway
	Logger  *zap.Logger

	DefaultPaths int
	MaxPaths     int
	MaxDays      int
}

func (h *SimulatorHandler) Register(r *gin.Engine) {
	r.POST("/api/simulator/monte-carlo", h.monteCarlo)
}

type simRequest struct {
	Symbol  string   `json:"symbol"`
	Days    int      `json:"days"`
	NPaths  int      `json:"n_paths"`
	Seed    *int64   `json:"seed"`
	Barrier *float64 `json:"barrier"`
}

type simSummary struct {
	P5       float64 `json:"p5"`
	P50      float64 `json:"p50"`
	P95      float64 `json:"p95"`
	MuAnn    float64 `json:"mu_ann"`
	SigmaAnn float64 `json:"sigma_ann"`
}

type simResponse struct {
	Symbol         string     `json:"symbol"`
	Spot           float64    `json:"spot"`
	TerminalPrices []float64  `json:"terminal_prices"`
	ProbTouch      *float64   `json:"prob_touch,omitempty"`
	Summary        simSummary `json:"summary"`
	Note           string     `json:"note,omitempty"`
}

// @Summary Monte Carlo price-path simulation
// @Tags simulator
// @Param request body simRequest true "simulation parameters"
// @Success 200 {object} simResponse
// @Router /api/simulator/monte-carlo [post]
func (h *SimulatorHandler) monteCarlo(c *gin.Context) {
	req := simRequest{Days: 30, NPaths: 2000}
	if h.DefaultPaths > 0 {
		req.NPaths = h.DefaultPaths
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		BadRequest(c, "symbol is required")
		return
	}
	maxDays := h.MaxDays
	if maxDays <= 0 {
		maxDays = 365
	}
	if req.Days < 1 || req.Days > maxDays {
		BadRequest(c, fmt.Sprintf("days must be between 1 and %d", maxDays))
		return
	}
	maxPaths := h.MaxPaths
	if maxPaths <= 0 {
		maxPaths = 20000
	}
	if req.NPaths < 1 || req.NPaths > maxPaths {
		BadRequest(c, fmt.Sprintf("n_paths must be between 1 and %d", maxPaths))
		return
	}
	if req.Barrier != nil && *req.Barrier <= 0 {
		BadRequest(c, "barrier must be > 0")
		return
	}

	series := h.Gateway.FetchDaily(c.Request.Context(), req.Symbol, 365)
	muDaily, sigmaDaily, err := montecarlo.EstimateDailyMuSigma(series)
	if err != nil {
		// Missing history degrades to an empty simulation with a note,
		// the same way the gateway degrades a failed fetch.
		c.JSON(http.StatusOK, simResponse{
			Symbol:         req.Symbol,
			TerminalPrices: []float64{},
			Note:           "Not enough price history for " + req.Symbol + " to estimate drift and volatility.",
		})
		return
	}
	spot := series.LastClose()
	muAnn := muDaily * 252
	sigmaAnn := sigmaDaily * math.Sqrt(252)

	sim := montecarlo.SimulatePaths(montecarlo.PathConfig{
		Spot:    spot,
		Mu:      muAnn,
		Sigma:   sigmaAnn,
		Days:    req.Days,
		NPaths:  req.NPaths,
		Barrier: req.Barrier,
		Seed:    req.Seed,
	})
	if sim == nil {
		c.JSON(http.StatusOK, simResponse{
			Symbol:         req.Symbol,
			Spot:           spot,
			TerminalPrices: []float64{},
			Note:           "Simulation could not run with the estimated parameters.",
		})
		return
	}
	c.JSON(http.StatusOK, simResponse{
		Symbol:         req.Symbol,
		Spot:           spot,
		TerminalPrices: sim.TerminalPrices,
		ProbTouch:      sim.ProbTouch,
		Summary: simSummary{
			P5:       sim.TerminalP5,
			P50:      sim.TerminalP50,
			P95:      sim.TerminalP95,
			MuAnn:    sim.MuAnnual,
			SigmaAnn: sim.SigmaAnnual,
		},
	})
}
