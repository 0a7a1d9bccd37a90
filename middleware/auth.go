package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/logger"
)

// Claims is the JWT payload issued for API access.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and stores the user's ID and
// email in the gin context. Tokens are HS256, signed with the configured
// secret.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			_ = c.Error(apperrors.AuthenticationFailed("Authorization header is required"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			_ = c.Error(apperrors.AuthenticationFailed("Authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				_ = c.Error(apperrors.AuthenticationFailed("Your session has expired"))
			} else {
				logger.GetLogger().Debugw("Token validation failed", "error", err)
				_ = c.Error(apperrors.AuthenticationFailed("Invalid token"))
			}
			c.Abort()
			return
		}
		if !token.Valid || claims.Subject == "" {
			_ = c.Error(apperrors.AuthenticationFailed("Invalid token"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}
