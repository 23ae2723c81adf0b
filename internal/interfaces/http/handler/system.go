package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blindscommerce/backend/internal/infrastructure/persistence"
)

// SystemHandler serves liveness and readiness probes.
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Healthz handles GET /healthz
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz handles GET /readyz. Reports not-ready when the database is
// unreachable; tax calculation itself would still answer from the hardcoded
// default, but admin operations would not.
func (h *SystemHandler) Readyz(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
