package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/raisehub/raisehub-backend/internal/api/http"
	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/users/domain"
	"github.com/raisehub/raisehub-backend/internal/users/repository"
	"github.com/raisehub/raisehub-backend/internal/users/service"
)

// Handler exposes the admin user moderation endpoints.
type Handler struct {
	svc             *service.ModerationService
	defaultPageSize int
	maxPageSize     int
}

func NewHandler(svc *service.ModerationService, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		svc:             svc,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *Handler) list(c *gin.Context) {
	f, err := h.parseFilter(c)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"users": page.Items,
		"pagination": gin.H{
			"total":       page.TotalCount,
			"total_pages": page.TotalPages,
			"page":        f.Page,
		},
	})
}

func (h *Handler) parseFilter(c *gin.Context) (repository.Filter, error) {
	f := repository.Filter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}

	if r := c.Query("role"); r != "" {
		role := domain.Role(r)
		if !role.Valid() {
			return f, moderation.NewValidationError("role", "unknown role")
		}
		f.Role = role
	}
	if s := c.Query("status"); s != "" {
		status := domain.ApprovalStatus(s)
		if !status.Valid() {
			return f, moderation.NewValidationError("status", "unknown approval status")
		}
		f.Status = status
	}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, moderation.NewValidationError("page", "must be an integer")
		}
		f.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, moderation.NewValidationError("limit", "must be an integer")
		}
		f.PageSize = n
	}

	var err error
	f.PageRequest, err = f.PageRequest.Normalize(h.defaultPageSize, h.maxPageSize)
	return f, err
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Location:  req.Location,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": u})
}

func (h *Handler) approve(c *gin.Context) {
	var req approveReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	u, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.AdminNotes)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) reject(c *gin.Context) {
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.RejectionReason, req.AdminNotes)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) bulkApprove(c *gin.Context) {
	var req bulkApproveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.BulkApprove(c.Request.Context(), req.UserIDs, req.AdminNotes)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"approved_count": res.ApprovedCount,
		"emails_sent":    res.EmailsSent,
		"failures":       res.Failures,
	})
}

func (h *Handler) get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}
