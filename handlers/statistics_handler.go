package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// StatisticsHandler serves aggregated travel statistics.
type StatisticsHandler struct {
	stats *services.StatisticsService
}

// NewStatisticsHandler creates a StatisticsHandler.
func NewStatisticsHandler(stats *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Overall handles GET /v1/statistics.
func (h *StatisticsHandler) Overall(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.stats.GetOverallStatistics(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(stats))
}

// YearInReview handles GET /v1/statistics/year-in-review?year=N. The year
// defaults to the current one.
func (h *StatisticsHandler) YearInReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("Invalid parameter", "year must be a number"))
			return
		}
		year = parsed
	}

	review, err := h.stats.GetYearInReview(c.Request.Context(), userID, year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(review))
}

// Timeline handles GET /v1/statistics/timeline.
func (h *StatisticsHandler) Timeline(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, offset := parsePagination(c)

	timeline, err := h.stats.GetTravelTimeline(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(timeline))
}
