package handler

import (
	"errors"
	"net/http"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves dashboards and heatmaps
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	query, err := parseDashboardQuery(c)
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), userID, query)
	if err != nil {
		respondWithLastKnown(c, err, dashboard, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *ReportHandler) GetHeatmap(c *gin.Context) {
	userID, ok := getAuthUserID(c)
	if !ok {
		return
	}

	rng, err := parseRange(c)
	if err != nil {
		respondError(c, err, "Failed to build heatmap")
		return
	}

	heatmap, err := h.service.Heatmap(c.Request.Context(), userID, model.HeatmapQuery{
		Range:  rng,
		Search: c.Query("search"),
		Tags:   parseTagsQuery(c),
	})
	if err != nil {
		respondWithLastKnown(c, err, heatmap, "Failed to build heatmap")
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

func parseDashboardQuery(c *gin.Context) (model.DashboardQuery, error) {
	query := model.DashboardQuery{Search: c.Query("search"), Tags: parseTagsQuery(c)}
	var err error
	if query.Range, err = parseRange(c); err != nil {
		return query, err
	}
	kind, err := parseKindQuery(c, "breakdown_kind")
	if err != nil {
		return query, err
	}
	if kind != nil {
		query.BreakdownKind = *kind
	}
	if query.TopN, err = parseIntQuery(c, "top_n"); err != nil {
		return query, err
	}
	if query.RankK, err = parseIntQuery(c, "rank_k"); err != nil {
		return query, err
	}
	return query, nil
}

// respondWithLastKnown adds the stale metrics, when there are any, to a 503 response.
func respondWithLastKnown[T any](c *gin.Context, err error, lastKnown *T, fallback string) {
	if errors.Is(err, model.ErrDataUnavailable) && lastKnown != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      model.ErrDataUnavailable.Error(),
			"last_known": lastKnown,
		})
		return
	}
	respondError(c, err, fallback)
}

// RegisterReportRoutes registers report routes on an authenticated group
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup) {
	reportGroup := rg.Group("/reports")
	{
		reportGroup.GET("/dashboard", h.GetDashboard)
		reportGroup.GET("/heatmap", h.GetHeatmap)
	}
}
