package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quantassist/internal/allocation"
)

type AllocationHandler struct {
	Samples int
	TopN    int
}

func (h *AllocationHandler) Register(r *gin.Engine) {
	r.POST("/api/allocation/efficient-frontier", h.efficientFrontier)
}

type frontierRequest struct {
	Tickers    []string    `json:"tickers"`
	ExpReturns []float64   `json:"exp_returns"`
	Cov        [][]float64 `json:"cov"`
	Seed       *int64      `json:"seed"`
}

type frontierResponse struct {
	Top []allocation.Portfolio `json:"top"`
}

// @Summary Efficient-frontier sampling over the long-only simplex
// @Tags allocation
// @Param request body frontierRequest true "expected returns and covariance"
// @Success 200 {object} frontierResponse
// @Router /api/allocation/efficient-frontier [post]
func (h *AllocationHandler) efficientFrontier(c *gin.Context) {
	var req frontierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	n := len(req.Tickers)
	if n == 0 {
		BadRequest(c, "tickers is required")
		return
	}
	if len(req.ExpReturns) != n {
		BadRequest(c, "exp_returns length must match tickers")
		return
	}
	if len(req.Cov) != n {
		BadRequest(c, "cov must be an NxN matrix matching tickers")
		return
	}
	for _, row := range req.Cov {
		if len(row) != n {
			BadRequest(c, "cov must be an NxN matrix matching tickers")
			return
		}
	}

	samples := h.Samples
	if samples <= 0 {
		samples = 5000
	}
	topN := h.TopN
	if topN <= 0 {
		topN = 25
	}
	top := allocation.SampleFrontier(req.ExpReturns, req.Cov, samples, topN, req.Seed)
	c.JSON(http.StatusOK, frontierResponse{Top: top})
}
