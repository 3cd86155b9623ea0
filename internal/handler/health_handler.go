package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	queueDB *sqlx.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(queueDB *sqlx.DB) *HealthHandler {
	return &HealthHandler{queueDB: queueDB}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.queueDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "job queue not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
