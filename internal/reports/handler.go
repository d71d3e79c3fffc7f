package reports

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"truthcheck-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/:id", h.getReport)
}

func (h *Handler) getReport(c *gin.Context) {
	reportID := c.Param("id")
	if reportID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report id is required", nil)
		return
	}
	c.Set("reportId", reportID)

	report, err := h.Repo.GetByID(c.Request.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
		}
		return
	}

	view := NewView(report)

	topTechniques := view.TechniqueCount()
	if v := c.Query("topTechniques"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			topTechniques = parsed
		}
	}
	topSimilarities := view.SimilarityCount()
	if v := c.Query("topSimilarities"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			topSimilarities = parsed
		}
	}

	resp := gin.H{
		"id":           report.ID,
		"verdict":      report.Verdict,
		"verdictLabel": view.VerdictLabel(),
		"score":        view.Score(),
		"content":      view.Content(),
		"summary":      view.Summary(),
		"explanation":  view.Explanation(),
		"sources":      view.Sources(),
		"techniques":   view.TopTechniques(topTechniques),
		"similarities": view.TopSimilarities(topSimilarities),
		"createdAt":    report.CreatedAt,
	}
	resp["unmatchedHighReputationSources"] = view.UnmatchedHighReputationSources()
	resp["stats"] = gin.H{
		"techniquesFound": view.TechniqueCount(),
		"similarPatterns": view.SimilarityCount(),
	}

	respond.JSON(c, http.StatusOK, resp)
}
