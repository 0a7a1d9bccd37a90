package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// CurrencyHandler serves exchange rates and conversions.
type CurrencyHandler struct {
	currency *services.CurrencyService
}

// NewCurrencyHandler creates a CurrencyHandler.
func NewCurrencyHandler(currency *services.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currency: currency}
}

// Rates handles GET /v1/currency/rates?base=USD.
func (h *CurrencyHandler) Rates(c *gin.Context) {
	rates, err := h.currency.GetExchangeRates(c.Request.Context(), c.DefaultQuery("base", "USD"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(rates))
}

// ConvertQuery handles GET /v1/currency/convert?from=&to=&amount=.
func (h *CurrencyHandler) ConvertQuery(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid conversion", "amount must be a number"))
		return
	}

	conversion, convErr := h.currency.Convert(c.Request.Context(), c.Query("from"), c.Query("to"), amount)
	if convErr != nil {
		_ = c.Error(convErr)
		return
	}
	c.JSON(http.StatusOK, types.Success(conversion))
}

// Convert handles POST /v1/currency/convert.
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req struct {
		From   string          `json:"from" binding:"required"`
		To     string          `json:"to" binding:"required"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	conversion, err := h.currency.Convert(c.Request.Context(), req.From, req.To, req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(conversion))
}

// BulkConvert handles POST /v1/currency/bulk-convert.
func (h *CurrencyHandler) BulkConvert(c *gin.Context) {
	var req struct {
		Amounts []types.BulkAmount `json:"amounts" binding:"required"`
		Target  string             `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	result, err := h.currency.BulkConvert(c.Request.Context(), req.Amounts, req.Target)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(result))
}

// Supported handles GET /v1/currency/supported.
func (h *CurrencyHandler) Supported(c *gin.Context) {
	c.JSON(http.StatusOK, types.Success(h.currency.SupportedCurrencies()))
}
