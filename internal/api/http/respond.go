package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raisehub/raisehub-backend/internal/moderation"
	projdomain "github.com/raisehub/raisehub-backend/internal/projects/domain"
	userdomain "github.com/raisehub/raisehub-backend/internal/users/domain"
)

// Error writes a JSON error response with the status matching the
// moderation error taxonomy. Every non-2xx response here means "nothing
// changed"; partial-success outcomes are rendered by their own handlers.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case moderation.IsValidation(err):
		status = http.StatusBadRequest
	case moderation.IsTransition(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, moderation.ErrConflict),
		errors.Is(err, userdomain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, projdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// internal detail stays in the logs
		msg = "internal error"
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}
