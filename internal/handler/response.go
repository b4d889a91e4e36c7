package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// BadRequest rejects invalid parameters before any upstream fetch.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Detail: message})
}

// Error reports a non-validation failure with the same shape.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Detail: message})
}
