package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/raisehub/raisehub-backend/internal/api/http"
	"github.com/raisehub/raisehub-backend/internal/moderation"
	"github.com/raisehub/raisehub-backend/internal/projects/domain"
	"github.com/raisehub/raisehub-backend/internal/projects/repository"
	"github.com/raisehub/raisehub-backend/internal/projects/service"
)

// Handler exposes the admin project moderation endpoints.
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
		"ok":       true,
		"projects": page.Items,
		"pagination": gin.H{
			"total":       page.TotalCount,
			"total_pages": page.TotalPages,
			"page":        f.Page,
		},
	})
}

func (h *Handler) parseFilter(c *gin.Context) (repository.Filter, error) {
	f := repository.Filter{
		Search:   c.Query("search"),
		Industry: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if s := c.Query("status"); s != "" {
		status := domain.Status(s)
		if !status.Valid() {
			return f, moderation.NewValidationError("status", "unknown project status")
		}
		f.Status = status
	}

	var err error
	if f.PageRequest, err = parsePage(c); err != nil {
		return f, err
	}
	if f.PageRequest, err = f.PageRequest.Normalize(h.defaultPageSize, h.maxPageSize); err != nil {
		return f, err
	}
	return f, nil
}

func parsePage(c *gin.Context) (moderation.PageRequest, error) {
	var p moderation.PageRequest
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, moderation.NewValidationError("page", "must be an integer")
		}
		p.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, moderation.NewValidationError("limit", "must be an integer")
		}
		p.PageSize = n
	}
	return p, nil
}

func (h *Handler) approve(c *gin.Context) {
	var req approveReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	p, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.AdminNotes)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) reject(c *gin.Context) {
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.RejectionReason, req.AdminNotes)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delist(c *gin.Context) {
	p, err := h.svc.Delist(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) featured(c *gin.Context) {
	var req featuredReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFeatured == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "is_featured is required"})
		return
	}

	p, err := h.svc.SetFeatured(c.Request.Context(), c.Param("id"), *req.IsFeatured)
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) edit(c *gin.Context) {
	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

// saveApprove persists an edit and then approves. The edit is never rolled
// back: an approve failure after a committed edit is reported alongside the
// updated project so the operator knows exactly what happened.
func (h *Handler) saveApprove(c *gin.Context) {
	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.SaveAndApprove(c.Request.Context(), c.Param("id"), req.fields(), "")
	if err != nil {
		httpapi.Error(c, err)
		return
	}

	if res.ApproveErr != nil {
		c.JSON(http.StatusOK, gin.H{
			"ok":            true,
			"project":       res.Project,
			"approve_error": res.ApproveErr.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": res.Project})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}
