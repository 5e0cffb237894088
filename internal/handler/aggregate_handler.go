package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/internal/service"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/response"
)

// AggregateHandler wires the totals, leaderboard and time series endpoints.
type AggregateHandler struct {
	aggregates *service.AggregateService
}

// NewAggregateHandler constructs an AggregateHandler.
func NewAggregateHandler(aggregates *service.AggregateService) *AggregateHandler {
	return &AggregateHandler{aggregates: aggregates}
}

// TotalHours handles GET /stats/total-hours.
func (h *AggregateHandler) TotalHours(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	hours, err := h.aggregates.TotalHours(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"total_hours": hours}, nil)
}

// Leaderboard handles GET /stats/leaderboard.
func (h *AggregateHandler) Leaderboard(c *gin.Context) {
	filter := models.RankFilter{
		Subject:   c.Query("subject"),
		Ascending: c.Query("order") == "asc",
	}
	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date_from must be YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date_to must be YYYY-MM-DD"))
			return
		}
		filter.DateTo = &parsed
	}

	entries, err := h.aggregates.Leaderboard(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// TimeSeries handles GET /stats/time-series.
func (h *AggregateHandler) TimeSeries(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	points, err := h.aggregates.TimeSeries(c.Request.Context(), claims.UserID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}
