package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/logger"
)

// RateLimiter is a Redis-backed fixed-window limiter keyed on the
// authenticated user, falling back to the client IP for public routes. A
// Redis outage never blocks requests.
func RateLimiter(redisClient *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	window := time.Minute

	return func(c *gin.Context) {
		if redisClient == nil || requestsPerMinute <= 0 {
			c.Next()
			return
		}

		subject := GetUserID(c)
		if subject == "" {
			subject = c.ClientIP()
		}
		key := fmt.Sprintf("ratelimit:%s", subject)

		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)

		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}

		if incr.Val() > int64(requestsPerMinute) {
			retryAfter := int(window.Seconds())
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			_ = c.Error(apperrors.RateLimitExceeded(retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
