package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports process uptime for a liveness probe.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Health returns a gin handler reporting uptime since startTime.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"data": HealthResponse{
				Status: "ok",
				Uptime: time.Since(startTime).Round(time.Second).String(),
			},
		})
	}
}
