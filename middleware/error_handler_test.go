package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
)

func errorTestRouter(fail func(c *gin.Context)) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", fail)
	return r
}

func TestErrorHandler(t *testing.T) {
	t.Run("app error rendered with details", func(t *testing.T) {
		r := errorTestRouter(func(c *gin.Context) {
			_ = c.Error(apperrors.NotFound("Trip", "trip-404"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{
			"type": "NOT_FOUND",
			"message": "Trip not found",
			"code": "404",
			"details": "ID: trip-404"
		}`, w.Body.String())
	})

	t.Run("5xx errors hide details", func(t *testing.T) {
		r := errorTestRouter(func(c *gin.Context) {
			_ = c.Error(apperrors.NewDatabaseError(errors.New("connection refused")))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.NotContains(t, w.Body.String(), "details")
	})

	t.Run("expired invite maps to 410", func(t *testing.T) {
		r := errorTestRouter(func(c *gin.Context) {
			_ = c.Error(apperrors.InviteExpired("code123code123ab"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusGone, w.Code)
		assert.Contains(t, w.Body.String(), "INVITE_EXPIRED")
		// The raw invite code never appears in responses.
		assert.NotContains(t, w.Body.String(), "code123code123ab")
	})

	t.Run("unknown errors become opaque 500", func(t *testing.T) {
		r := errorTestRouter(func(c *gin.Context) {
			_ = c.Error(errors.New("something internal"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "something internal")
		assert.Contains(t, w.Body.String(), "SERVER_ERROR")
	})

	t.Run("no errors leaves response alone", func(t *testing.T) {
		r := errorTestRouter(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	})
}
