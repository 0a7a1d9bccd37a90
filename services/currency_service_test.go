package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/types"
)

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"lowercase normalized", "usd", "USD", false},
		{"mixed case normalized", "eUr", "EUR", false},
		{"already uppercase", "GBP", "GBP", false},
		{"too short", "US", "", true},
		{"too long", "USDT", "", true},
		{"digits rejected", "US1", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCurrency(tt.input)
			if tt.wantErr {
				assertAppError(t, err, apperrors.ValidationError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCurrencyService_Convert(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	t.Run("same currency converts at rate one", func(t *testing.T) {
		svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

		conv, err := svc.Convert(context.Background(), "eur", "EUR", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, conv.Rate.Equal(decimal.NewFromInt(1)))
		assert.True(t, conv.Converted.Equal(decimal.NewFromInt(100)))
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

		_, err := svc.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(-5))
		assertAppError(t, err, apperrors.ValidationError)
	})

	t.Run("rates from primary api", func(t *testing.T) {
		primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/USD", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9,"USD":1.0}}`))
		}))
		defer primary.Close()

		svc := NewCurrencyService(nil, nil, primary.URL, failing.URL)

		conv, err := svc.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, "90", conv.Converted.String())
	})

	t.Run("both apis down falls back to static table", func(t *testing.T) {
		svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

		rates, err := svc.GetExchangeRates(context.Background(), "USD")
		require.NoError(t, err)
		assert.Equal(t, "static", rates.Source)
		assert.Equal(t, "USD", rates.Base)
		assert.InDelta(t, 0.92, rates.Rates["EUR"], 1e-9)

		conv, err := svc.Convert(context.Background(), "USD", "EUR", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, "92", conv.Converted.String())
	})

	t.Run("static table rebases to requested base", func(t *testing.T) {
		svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

		rates, err := svc.GetExchangeRates(context.Background(), "EUR")
		require.NoError(t, err)
		assert.Equal(t, "static", rates.Source)
		assert.InDelta(t, 1.0, rates.Rates["EUR"], 1e-9)
		assert.InDelta(t, 1.086957, rates.Rates["USD"], 1e-6)
	})

	t.Run("unsupported target rejected", func(t *testing.T) {
		svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

		_, err := svc.Convert(context.Background(), "USD", "XYZ", decimal.NewFromInt(10))
		assertAppError(t, err, apperrors.ValidationError)
	})
}

func TestCurrencyService_BulkConvert(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	svc := NewCurrencyService(nil, nil, failing.URL, failing.URL)

	t.Run("totals across currencies", func(t *testing.T) {
		result, err := svc.BulkConvert(context.Background(), []types.BulkAmount{
			{Currency: "USD", Amount: decimal.NewFromInt(100)},
			{Currency: "USD", Amount: decimal.NewFromInt(50)},
		}, "USD")
		require.NoError(t, err)
		assert.Len(t, result.Conversions, 2)
		assert.Equal(t, "150", result.Total.String())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := svc.BulkConvert(context.Background(), nil, "USD")
		assertAppError(t, err, apperrors.ValidationError)
	})
}

func TestCurrencyService_SupportedCurrencies(t *testing.T) {
	svc := NewCurrencyService(nil, nil, "", "")
	supported := svc.SupportedCurrencies()

	assert.Len(t, supported, 20)
	assert.Equal(t, "USD", supported[0].Code)
	for _, info := range supported {
		assert.Len(t, info.Code, 3)
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Symbol)
	}
}
