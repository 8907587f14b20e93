package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health serves the liveness and readiness probes.
type Health struct {
	started time.Time
}

func NewHealth() *Health {
	return &Health{started: time.Now()}
}

func (h *Health) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Live)
	rg.GET("/ready", h.Ready)
}

func (h *Health) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

func (h *Health) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
