package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// AchievementHandler handles the achievement catalog, progress checks and
// the leaderboard.
type AchievementHandler struct {
	achievements *services.AchievementService
}

// NewAchievementHandler creates an AchievementHandler.
func NewAchievementHandler(achievements *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

// GetCatalog handles GET /v1/achievements.
func (h *AchievementHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.achievements.GetCatalog(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(catalog))
}

// GetMine handles GET /v1/achievements/me.
func (h *AchievementHandler) GetMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.achievements.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(summary))
}

// Check handles POST /v1/achievements/check: recompute the caller's metrics
// and unlock anything newly earned.
func (h *AchievementHandler) Check(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	unlocked, err := h.achievements.CheckAndUpdateAchievements(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if unlocked == nil {
		unlocked = []*types.AchievementUnlock{}
	}
	c.JSON(http.StatusOK, types.Success(unlocked))
}

// GetUnseen handles GET /v1/achievements/unseen.
func (h *AchievementHandler) GetUnseen(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	unseen, err := h.achievements.GetUnseenAchievements(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(unseen))
}

// MarkSeen handles POST /v1/achievements/:id/seen.
func (h *AchievementHandler) MarkSeen(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.achievements.MarkAchievementSeen(c.Request.Context(), userID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leaderboard handles GET /v1/achievements/leaderboard.
func (h *AchievementHandler) Leaderboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	board, err := h.achievements.GetLeaderboard(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(board))
}
