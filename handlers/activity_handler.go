package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ActivityHandler handles itinerary entries nested under a trip.
type ActivityHandler struct {
	activities *services.ActivityService
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(activities *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// List handles GET /v1/trips/:id/activities.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	activities, err := h.activities.ListActivities(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(activities))
}

// Create handles POST /v1/trips/:id/activities.
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var activity types.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	created, err := h.activities.CreateActivity(c.Request.Context(), c.Param("id"), userID, &activity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(created))
}

// Update handles PATCH /v1/trips/:id/activities/:activityId.
func (h *ActivityHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.ActivityUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	activity, err := h.activities.UpdateActivity(c.Request.Context(), c.Param("id"), c.Param("activityId"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(activity))
}

// Reorder handles POST /v1/trips/:id/activities/reorder.
func (h *ActivityHandler) Reorder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		OrderedIDs []string `json:"orderedIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if err := h.activities.ReorderActivities(c.Request.Context(), c.Param("id"), userID, req.OrderedIDs); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /v1/trips/:id/activities/:activityId.
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.activities.DeleteActivity(c.Request.Context(), c.Param("id"), c.Param("activityId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
