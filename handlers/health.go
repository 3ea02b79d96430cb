package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/models"
)

const readyTimeout = 2 * time.Second

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.OK(gin.H{"status": "ok"}))
}

// ReadyCheck reports ready only while the database answers.
func ReadyCheck(db Pinger, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("readiness check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, models.Fail("database unavailable"))
			return
		}
		c.JSON(http.StatusOK, models.OK(gin.H{"status": "ready"}))
	}
}
