package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Generator string    `json:"generator"`
}

// HandleHealth reports liveness, version and the configured feedback
// generator.
func HandleHealth(version string, startTime time.Time, generator string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Generator: generator,
		})
	}
}
