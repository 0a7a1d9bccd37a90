package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/middleware"
	"github.com/odyssey-travel/odyssey-backend/services"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	logger.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// currencyRouter wires the handler against a service whose upstream APIs are
// unreachable, so every response comes from the static table.
func currencyRouter() *gin.Engine {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h := NewCurrencyHandler(services.NewCurrencyService(nil, nil, failing.URL, failing.URL))

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/currency/rates", h.Rates)
	r.GET("/currency/convert", h.ConvertQuery)
	r.POST("/currency/convert", h.Convert)
	r.POST("/currency/bulk-convert", h.BulkConvert)
	r.GET("/currency/supported", h.Supported)
	return r
}

func TestCurrencyHandler_Rates(t *testing.T) {
	r := currencyRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/rates?base=usd", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"base":"USD"`)
	assert.Contains(t, w.Body.String(), `"source":"static"`)
}

func TestCurrencyHandler_ConvertQuery(t *testing.T) {
	r := currencyRouter()

	t.Run("valid conversion", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
			"/currency/convert?from=USD&to=EUR&amount=100", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"converted":"92"`)
	})

	t.Run("bad amount rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
			"/currency/convert?from=USD&to=EUR&amount=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("bad currency rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
			"/currency/convert?from=US&to=EUR&amount=10", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCurrencyHandler_Convert(t *testing.T) {
	r := currencyRouter()

	t.Run("valid body", func(t *testing.T) {
		body := strings.NewReader(`{"from":"USD","to":"EUR","amount":"50"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/currency/convert", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"converted":"46"`)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		body := strings.NewReader(`{"from":"USD"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/currency/convert", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCurrencyHandler_BulkConvert(t *testing.T) {
	r := currencyRouter()

	body := strings.NewReader(`{
		"amounts": [
			{"currency": "USD", "amount": "100"},
			{"currency": "USD", "amount": "25"}
		],
		"target": "USD"
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/currency/bulk-convert", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"125"`)
}

func TestCurrencyHandler_Supported(t *testing.T) {
	r := currencyRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/supported", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"USD"`)
	assert.Contains(t, w.Body.String(), `"code":"EUR"`)
}
