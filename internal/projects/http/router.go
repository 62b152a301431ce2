package http

import "github.com/gin-gonic/gin"

// Register attaches the admin project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id/approve", h.approve)
	rg.PUT("/:id/reject", h.reject)
	rg.PUT("/:id/delist", h.delist)
	rg.PUT("/:id/featured", h.featured)
	rg.PUT("/:id/edit", h.edit)
	rg.PUT("/:id/save-approve", h.saveApprove)
}
