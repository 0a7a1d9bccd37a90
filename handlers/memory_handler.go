package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// MemoryHandler handles geotagged photo uploads nested under a trip.
type MemoryHandler struct {
	memories *services.MemoryService
}

// NewMemoryHandler creates a MemoryHandler.
func NewMemoryHandler(memories *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{memories: memories}
}

// List handles GET /v1/trips/:id/memories.
func (h *MemoryHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	memories, err := h.memories.ListMemories(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(memories))
}

// Create handles POST /v1/trips/:id/memories. Multipart form with a "photo"
// file plus optional caption, latitude, longitude and takenAt fields.
func (h *MemoryHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid memory", "a photo file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid memory", "could not read uploaded file"))
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("failed to read uploaded file"))
		return
	}

	lat, err := optionalFloatForm(c, "latitude")
	if err != nil {
		_ = c.Error(err)
		return
	}
	lon, err := optionalFloatForm(c, "longitude")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var takenAt *time.Time
	if raw := c.PostForm("takenAt"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("Invalid memory", "takenAt must be RFC3339"))
			return
		}
		takenAt = &parsed
	}

	memory, err := h.memories.CreateMemory(c.Request.Context(), c.Param("id"), userID, photo, c.PostForm("caption"), lat, lon, takenAt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(memory))
}

// Delete handles DELETE /v1/trips/:id/memories/:memoryId.
func (h *MemoryHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.memories.DeleteMemory(c.Request.Context(), c.Param("id"), c.Param("memoryId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func optionalFloatForm(c *gin.Context, name string) (*float64, *apperrors.AppError) {
	raw := c.PostForm(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.ValidationFailed("Invalid memory", name+" must be a number")
	}
	return &v, nil
}
