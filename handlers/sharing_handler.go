package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// SharingHandler handles the invitation lifecycle: share, inspect, accept,
// decline and revoke.
type SharingHandler struct {
	sharing *services.SharingService
}

// NewSharingHandler creates a SharingHandler.
func NewSharingHandler(sharing *services.SharingService) *SharingHandler {
	return &SharingHandler{sharing: sharing}
}

// ShareTrip handles POST /v1/trips/:id/share.
func (h *SharingHandler) ShareTrip(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Email      string                `json:"email" binding:"required"`
		Permission types.SharePermission `json:"permission"`
		ExpiresAt  *time.Time            `json:"expiresAt,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}
	if req.Permission == "" {
		req.Permission = types.SharePermissionView
	}

	share, err := h.sharing.ShareTrip(c.Request.Context(), c.Param("id"), userID, req.Email, req.Permission, req.ExpiresAt)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(share))
}

// ListShares handles GET /v1/trips/:id/shares. Owner only.
func (h *SharingHandler) ListShares(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	shares, err := h.sharing.GetTripShares(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(shares))
}

// UpdateShare handles PATCH /v1/trips/:id/shares/:shareId. Owner only.
func (h *SharingHandler) UpdateShare(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Permission types.SharePermission `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	share, err := h.sharing.UpdateSharePermission(c.Request.Context(), c.Param("id"), c.Param("shareId"), userID, req.Permission)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(share))
}

// RevokeShare handles DELETE /v1/trips/:id/shares/:shareId. Owner only.
func (h *SharingHandler) RevokeShare(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.sharing.RevokeShare(c.Request.Context(), c.Param("id"), c.Param("shareId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetInvite handles GET /v1/share/invite/:code. Public: the invitee may not
// have an account yet.
func (h *SharingHandler) GetInvite(c *gin.Context) {
	details, err := h.sharing.GetInviteDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(details))
}

// AcceptInvite handles POST /v1/share/accept/:code.
func (h *SharingHandler) AcceptInvite(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	share, err := h.sharing.AcceptInvite(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(share))
}

// DeclineInvite handles POST /v1/share/decline/:code.
func (h *SharingHandler) DeclineInvite(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	share, err := h.sharing.DeclineInvite(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(share))
}

// SharedWithMe handles GET /v1/trips/shared-with-me.
func (h *SharingHandler) SharedWithMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	trips, err := h.sharing.GetTripsSharedWithMe(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(trips))
}
