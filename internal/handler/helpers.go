package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Query helpers return ok=false only when the parameter is present but
// malformed; an absent parameter takes the default.

func intQuery(c *gin.Context, key string, def int) (int, bool) {
	val := c.Query(key)
	if val == "" {
		return def, true
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def, false
	}
	return i, true
}

func int64Query(c *gin.Context, key string, def int64) (int64, bool) {
	val := c.Query(key)
	if val == "" {
		return def, true
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def, false
	}
	return i, true
}

func floatQuery(c *gin.Context, key string, def float64) (float64, bool) {
	val := c.Query(key)
	if val == "" {
		return def, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def, false
	}
	return f, true
}

func boolQueryDefault(c *gin.Context, key string, def bool) bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

func decimalQuery(c *gin.Context, key string, def decimal.Decimal) (decimal.Decimal, bool) {
	val := c.Query(key)
	if val == "" {
		return def, true
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return def, false
	}
	return d, true
}

// symbolList splits a comma-separated ticker list, trimming and
// upper-casing each entry.
func symbolList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.ToUpper(strings.TrimSpace(part)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
