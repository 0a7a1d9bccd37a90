package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TripHandler handles trip CRUD, search and status transitions.
type TripHandler struct {
	trips *services.TripService
}

// NewTripHandler creates a TripHandler.
func NewTripHandler(trips *services.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// ListTrips handles GET /v1/trips.
func (h *TripHandler) ListTrips(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, offset := parsePagination(c)

	trips, total, err := h.trips.ListTrips(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Paginated(trips, limit, offset, total))
}

// CreateTrip handles POST /v1/trips.
func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var trip types.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	created, err := h.trips.CreateTrip(c.Request.Context(), userID, &trip)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(created))
}

// GetTrip handles GET /v1/trips/:id.
func (h *TripHandler) GetTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	trip, err := h.trips.GetTrip(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(trip))
}

// UpdateTrip handles PATCH /v1/trips/:id.
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.TripUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trip, err := h.trips.UpdateTrip(c.Request.Context(), c.Param("id"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(trip))
}

// UpdateTripStatus handles PATCH /v1/trips/:id/status.
func (h *TripHandler) UpdateTripStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status types.TripStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trip, err := h.trips.UpdateTripStatus(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(trip))
}

// SearchTrips handles POST /v1/trips/search.
func (h *TripHandler) SearchTrips(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, offset := parsePagination(c)

	var criteria types.TripSearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trips, total, err := h.trips.SearchTrips(c.Request.Context(), userID, criteria, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Paginated(trips, limit, offset, total))
}

// DeleteTrip handles DELETE /v1/trips/:id.
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.trips.DeleteTrip(c.Request.Context(), c.Param("id"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
