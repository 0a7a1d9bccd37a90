package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// DocumentHandler handles travel documents nested under a trip.
type DocumentHandler struct {
	documents *services.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List handles GET /v1/trips/:id/documents.
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	docs, err := h.documents.ListDocuments(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(docs))
}

// Grouped handles GET /v1/trips/:id/documents/grouped.
func (h *DocumentHandler) Grouped(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	grouped, err := h.documents.ListDocumentsGrouped(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(grouped))
}

// Get handles GET /v1/trips/:id/documents/:documentId.
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(c.Request.Context(), c.Param("id"), c.Param("documentId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(doc))
}

// Create handles POST /v1/trips/:id/documents. Multipart form with a "file"
// upload plus name, type and notes fields.
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid document", "a file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid document", "could not read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = c.Error(apperrors.InternalServerError("failed to read uploaded file"))
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	doc, err := h.documents.CreateDocument(c.Request.Context(), c.Param("id"), userID, data, c.PostForm("type"), name, c.PostForm("notes"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(doc))
}

// Update handles PATCH /v1/trips/:id/documents/:documentId.
func (h *DocumentHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.DocumentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	doc, err := h.documents.UpdateDocument(c.Request.Context(), c.Param("id"), c.Param("documentId"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(doc))
}

// Delete handles DELETE /v1/trips/:id/documents/:documentId.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.documents.DeleteDocument(c.Request.Context(), c.Param("id"), c.Param("documentId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
