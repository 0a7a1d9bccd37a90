package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func rateLimitRouter(client *redis.Client, limit int, userID string) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set(UserIDKey, userID)
		})
	}
	r.Use(RateLimiter(client, limit))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimiter(t *testing.T) {
	t.Run("request under the limit passes", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:user-1").SetVal(1)
		mock.ExpectExpire("ratelimit:user-1", time.Minute).SetVal(true)
		mock.ExpectTxPipelineExec()

		r := rateLimitRouter(client, 60, "user-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request over the limit gets 429 with Retry-After", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:user-1").SetVal(61)
		mock.ExpectExpire("ratelimit:user-1", time.Minute).SetVal(true)
		mock.ExpectTxPipelineExec()

		r := rateLimitRouter(client, 60, "user-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis outage fails open", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:user-1").SetErr(errors.New("connection refused"))

		r := rateLimitRouter(client, 60, "user-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("nil client disables limiting", func(t *testing.T) {
		r := rateLimitRouter(nil, 60, "user-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unauthenticated requests keyed by client ip", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:192.0.2.1").SetVal(1)
		mock.ExpectExpire("ratelimit:192.0.2.1", time.Minute).SetVal(true)
		mock.ExpectTxPipelineExec()

		r := rateLimitRouter(client, 60, "")
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
