package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linhlinh38/Bookminton/internal/metrics"
)

// MetricsMiddleware records every request under its route pattern so
// path parameters do not explode the label set.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
