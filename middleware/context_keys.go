package middleware

import "github.com/gin-gonic/gin"

// Context keys set by the auth middleware and read by handlers.
const (
	// UserIDKey is the gin context key for the authenticated user's ID.
	UserIDKey = "userID"
	// UserEmailKey is the gin context key for the authenticated user's email.
	UserEmailKey = "userEmail"
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"
)

// GetUserID returns the authenticated user's ID from the gin context, or ""
// when the request is unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUserEmail returns the authenticated user's email from the gin context.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}
