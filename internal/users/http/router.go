package http

import "github.com/gin-gonic/gin"

// Register attaches the admin user routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id/approve", h.approve)
	rg.PUT("/:id/reject", h.reject)
	rg.POST("/bulk-approve", h.bulkApprove)
}
