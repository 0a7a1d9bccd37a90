package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TemplateHandler handles reusable trip templates.
type TemplateHandler struct {
	templates *services.TemplateService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// ListMine handles GET /v1/templates.
func (h *TemplateHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	templates, err := h.templates.ListMyTemplates(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(templates))
}

// ListPublic handles GET /v1/templates/public.
func (h *TemplateHandler) ListPublic(c *gin.Context) {
	limit, offset := parsePagination(c)

	templates, total, err := h.templates.ListPublicTemplates(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Paginated(templates, limit, offset, total))
}

// Categories handles GET /v1/templates/categories.
func (h *TemplateHandler) Categories(c *gin.Context) {
	categories, err := h.templates.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(categories))
}

// Get handles GET /v1/templates/:id.
func (h *TemplateHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tpl, err := h.templates.GetTemplate(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(tpl))
}

// Create handles POST /v1/templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var tpl types.TripTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	created, err := h.templates.CreateTemplate(c.Request.Context(), userID, &tpl)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(created))
}

// CreateFromTrip handles POST /v1/templates/from-trip.
func (h *TemplateHandler) CreateFromTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		TripID      string `json:"tripId" binding:"required"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		IsPublic    bool   `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	tpl, err := h.templates.CreateTemplateFromTrip(c.Request.Context(), req.TripID, userID, req.Name, req.Description, req.Category, req.IsPublic)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(tpl))
}

// Use handles POST /v1/templates/use/:id: instantiate the template into a
// fresh trip.
func (h *TemplateHandler) Use(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title     string    `json:"title"`
		StartDate time.Time `json:"startDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	trip, err := h.templates.UseTemplate(c.Request.Context(), c.Param("id"), userID, req.Title, req.StartDate)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(trip))
}

// Update handles PATCH /v1/templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.TemplateUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	tpl, err := h.templates.UpdateTemplate(c.Request.Context(), c.Param("id"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(tpl))
}

// Delete handles DELETE /v1/templates/:id.
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.templates.DeleteTemplate(c.Request.Context(), c.Param("id"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
