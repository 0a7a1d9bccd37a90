package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// PackingHandler handles packing-list items nested under a trip.
type PackingHandler struct {
	packing *services.PackingService
}

// NewPackingHandler creates a PackingHandler.
func NewPackingHandler(packing *services.PackingService) *PackingHandler {
	return &PackingHandler{packing: packing}
}

// List handles GET /v1/trips/:id/packing with optional category and packed
// filters.
func (h *PackingHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var category *types.PackingCategory
	if raw := c.Query("category"); raw != "" {
		cat := types.PackingCategory(raw)
		category = &cat
	}
	var packed *bool
	if raw := c.Query("packed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("Invalid filter", "packed must be a boolean"))
			return
		}
		packed = &v
	}

	items, err := h.packing.ListPackingItems(c.Request.Context(), c.Param("id"), userID, category, packed)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(items))
}

// Progress handles GET /v1/trips/:id/packing/progress.
func (h *PackingHandler) Progress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	progress, err := h.packing.GetPackingProgress(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(progress))
}

// Get handles GET /v1/trips/:id/packing/:itemId.
func (h *PackingHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	item, err := h.packing.GetPackingItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(item))
}

// Create handles POST /v1/trips/:id/packing.
func (h *PackingHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var item types.PackingItem
	if err := c.ShouldBindJSON(&item); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	created, err := h.packing.CreatePackingItem(c.Request.Context(), c.Param("id"), userID, &item)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(created))
}

// Update handles PATCH /v1/trips/:id/packing/:itemId.
func (h *PackingHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.PackingItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	item, err := h.packing.UpdatePackingItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(item))
}

// Toggle handles POST /v1/trips/:id/packing/:itemId/toggle.
func (h *PackingHandler) Toggle(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	item, err := h.packing.TogglePackingItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(item))
}

// BulkToggle handles POST /v1/trips/:id/packing/bulk-toggle.
func (h *PackingHandler) BulkToggle(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		IDs    []string `json:"ids" binding:"required"`
		Packed bool     `json:"packed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	if err := h.packing.BulkTogglePackingItems(c.Request.Context(), c.Param("id"), userID, req.IDs, req.Packed); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder handles POST /v1/trips/:id/packing/reorder.
func (h *PackingHandler) Reorder(c *gin.Context) {
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

	if err := h.packing.ReorderPackingItems(c.Request.Context(), c.Param("id"), userID, req.OrderedIDs); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /v1/trips/:id/packing/:itemId.
func (h *PackingHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.packing.DeletePackingItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
