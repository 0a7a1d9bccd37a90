package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/logger"
)

// ErrorHandler drains errors pushed onto the gin context and renders them as
// a structured JSON envelope. Handlers report failures with c.Error instead
// of writing responses themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()

			logFields := []interface{}{
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"status", statusCode,
				"error_type", string(appError.Type),
				"error_message", appError.Message,
				"request_id", c.GetString(RequestIDKey),
			}
			if statusCode >= 500 {
				log.Errorw("Request failed", logFields...)
			} else {
				log.Infow("Request rejected", logFields...)
			}

			response := gin.H{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}
			// Details only where they help the client, never for 5xx.
			if appError.Detail != "" && statusCode < 500 {
				response["details"] = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			log.Infow("Request binding error",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err)

			c.JSON(400, gin.H{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
				"details": err.Error(),
			})
			return
		}

		log.Errorw("Unhandled error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
			"request_id", c.GetString(RequestIDKey))

		c.JSON(500, gin.H{
			"type":    string(errors.ServerError),
			"message": "Internal server error",
			"code":    "500",
		})
	}
}
