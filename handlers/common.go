package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/middleware"
)

// requireUserID returns the authenticated user's ID, pushing an auth error
// when the context has none.
func requireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		_ = c.Error(apperrors.AuthenticationFailed("User ID missing from context"))
		return "", false
	}
	return userID, true
}

// parsePagination reads limit/offset query parameters. Services clamp the
// values, so out-of-range input is forgiven rather than rejected.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// parseFloatQuery reads a required float query parameter.
func parseFloatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		_ = c.Error(apperrors.ValidationFailed("Missing parameter", name+" is required"))
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid parameter", name+" must be a number"))
		return 0, false
	}
	return v, true
}
