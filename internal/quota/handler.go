package quota

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"truthcheck-backend/internal/shared/server/middleware"
	"truthcheck-backend/internal/shared/server/respond"
)

// Handler exposes quota endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches quota routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quota", h.getQuota)
}

// RegisterDevRoutes attaches dev-only quota routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/quota/reset", h.resetQuota)
}

func (h *Handler) getQuota(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	a, err := h.Svc.EnsurePeriod(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch quota", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"plan":     a.Plan,
		"limit":    a.Limit,
		"used":     a.Used,
		"resetsAt": a.ResetsAt,
	})
}

func (h *Handler) resetQuota(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	a, err := h.Svc.Reset(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset quota", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"plan":     a.Plan,
		"limit":    a.Limit,
		"used":     a.Used,
		"resetsAt": a.ResetsAt,
	})
}
