package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxAdminID    = "admin_id"
	CtxAdminEmail = "admin_email"
)

// AdminID extracts the authenticated admin's id from the Gin context.
// This is set by Middleware.
func AdminID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAdminID))
}

// AdminEmail extracts the authenticated admin's email from the Gin context.
func AdminEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAdminEmail))
}
