package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/raisehub/raisehub-backend/internal/api/http"
	"github.com/raisehub/raisehub-backend/internal/stats/service"
)

// Handler serves the admin dashboard aggregates.
type Handler struct {
	svc *service.StatsService
}

func NewHandler(svc *service.StatsService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches the stats routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	snap, err := h.svc.Get(c.Request.Context())
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": snap})
}
