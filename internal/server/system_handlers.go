package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linhlinh38/Bookminton/internal/api"
	"github.com/linhlinh38/Bookminton/internal/logger"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports 503 while the database does not answer.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "degraded", Database: "down"})
			return
		}

		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Database: "up"})
	}
}

func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
