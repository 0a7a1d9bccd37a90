package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

const (
	ratesCacheTTL = 24 * time.Hour
	// Static table rates are stale by definition, so cache them briefly.
	staticRatesTTL = time.Hour
)

// CurrencyService serves exchange rates and conversions. Rates come from
// Redis, then the DB-backed cache, then the primary API, then a fallback
// API, and finally a static table so conversions never hard-fail.
type CurrencyService struct {
	rates       store.RateStore
	redis       *redis.Client
	client      *http.Client
	primaryURL  string
	fallbackURL string
}

// NewCurrencyService creates a CurrencyService. redisClient may be nil, in
// which case only the DB cache is used.
func NewCurrencyService(rates store.RateStore, redisClient *redis.Client, primaryURL, fallbackURL string) *CurrencyService {
	if primaryURL == "" {
		primaryURL = "https://api.exchangerate-api.com/v4/latest"
	}
	if fallbackURL == "" {
		fallbackURL = "https://open.er-api.com/v6/latest"
	}
	return &CurrencyService{
		rates: rates,
		redis: redisClient,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
	}
}

// GetExchangeRates returns rates relative to a base currency.
func (s *CurrencyService) GetExchangeRates(ctx context.Context, base string) (*types.ExchangeRates, error) {
	base, err := normalizeCurrency(base)
	if err != nil {
		return nil, err
	}

	cacheKey := "currency:rates:" + base
	if s.redis != nil {
		var cached types.ExchangeRates
		if payload, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	if s.rates != nil {
		if cached, err := s.rates.GetRates(ctx, base); err == nil {
			return cached, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			logger.GetLogger().Warnw("Rate cache lookup failed", "error", err)
		}
	}

	rates := s.fetchRates(ctx, base)
	if rates != nil {
		s.storeRates(ctx, cacheKey, rates)
		return rates, nil
	}

	return staticRates(base), nil
}

// Convert converts an amount between two currencies, rounded to two decimal
// places.
func (s *CurrencyService) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*types.Conversion, error) {
	from, err := normalizeCurrency(from)
	if err != nil {
		return nil, err
	}
	to, err = normalizeCurrency(to)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperrors.ValidationFailed("Invalid conversion", "amount must not be negative")
	}

	if from == to {
		return &types.Conversion{
			From:      from,
			To:        to,
			Amount:    amount,
			Converted: amount,
			Rate:      decimal.NewFromInt(1),
		}, nil
	}

	rates, err := s.GetExchangeRates(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := rates.Rates[to]
	if !ok {
		return nil, apperrors.ValidationFailed("Invalid conversion", "currency "+to+" is not supported")
	}

	rateDec := decimal.NewFromFloat(rate)
	return &types.Conversion{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: amount.Mul(rateDec).Round(2),
		Rate:      rateDec,
	}, nil
}

// BulkConvert converts several amounts into one target currency and totals
// them.
func (s *CurrencyService) BulkConvert(ctx context.Context, amounts []types.BulkAmount, target string) (*types.BulkConversion, error) {
	target, err := normalizeCurrency(target)
	if err != nil {
		return nil, err
	}
	if len(amounts) == 0 {
		return nil, apperrors.ValidationFailed("Invalid conversion", "at least one amount is required")
	}

	result := &types.BulkConversion{
		Target:    target,
		FetchedAt: time.Now().UTC(),
	}
	for _, item := range amounts {
		conversion, err := s.Convert(ctx, item.Currency, target, item.Amount)
		if err != nil {
			return nil, err
		}
		result.Conversions = append(result.Conversions, conversion)
		result.Total = result.Total.Add(conversion.Converted)
	}
	result.Total = result.Total.Round(2)
	return result, nil
}

// SupportedCurrencies returns the static catalog of common currencies.
func (s *CurrencyService) SupportedCurrencies() []types.CurrencyInfo {
	return supportedCurrencies
}

func normalizeCurrency(code string) (string, error) {
	if len(code) != 3 {
		return "", apperrors.ValidationFailed("Invalid currency", "currency must be a 3-letter code")
	}
	upper := make([]byte, 3)
	for i := 0; i < 3; i++ {
		c := code[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return "", apperrors.ValidationFailed("Invalid currency", "currency must be a 3-letter code")
		}
		upper[i] = c
	}
	return string(upper), nil
}

func (s *CurrencyService) storeRates(ctx context.Context, cacheKey string, rates *types.ExchangeRates) {
	log := logger.GetLogger()
	if s.redis != nil {
		if payload, err := json.Marshal(rates); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, ratesCacheTTL).Err(); err != nil {
				log.Warnw("Failed to cache rates in Redis", "error", err)
			}
		}
	}
	if s.rates != nil {
		if err := s.rates.SaveRates(ctx, rates, int(ratesCacheTTL.Seconds())); err != nil {
			log.Warnw("Failed to cache rates in DB", "error", err)
		}
	}
}

// fetchRates tries the primary API, then the fallback API. Returns nil when
// both fail.
func (s *CurrencyService) fetchRates(ctx context.Context, base string) *types.ExchangeRates {
	log := logger.GetLogger()

	if rates := s.fetchRatesFrom(ctx, s.primaryURL, base); rates != nil {
		rates.Source = "api"
		return rates
	}
	log.Warnw("Primary exchange rate API failed, trying fallback", "base", base)

	if rates := s.fetchRatesFrom(ctx, s.fallbackURL, base); rates != nil {
		rates.Source = "fallback-api"
		return rates
	}
	log.Warnw("Fallback exchange rate API failed, using static table", "base", base)
	return nil
}

func (s *CurrencyService) fetchRatesFrom(ctx context.Context, baseURL, base string) *types.ExchangeRates {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/"+base, nil)
	if err != nil {
		return nil
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var parsed struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.GetLogger().Warnw("Failed to decode exchange rate response", "error", err)
		return nil
	}
	if len(parsed.Rates) == 0 {
		return nil
	}

	return &types.ExchangeRates{
		Base:      base,
		Rates:     parsed.Rates,
		FetchedAt: time.Now().UTC(),
	}
}

// Approximate USD rates kept as a last resort so conversions keep working
// offline.
var staticUSDRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.50,
	"AUD": 1.53,
	"CAD": 1.36,
	"CHF": 0.88,
	"CNY": 7.24,
	"INR": 83.12,
	"BDT": 110.0,
	"SGD": 1.34,
	"THB": 35.80,
	"MYR": 4.72,
	"KRW": 1320.0,
	"MXN": 17.15,
	"BRL": 4.97,
	"ZAR": 18.90,
	"NZD": 1.64,
	"AED": 3.67,
	"SAR": 3.75,
}

// staticRates rebases the static USD table onto the requested currency. An
// unknown base falls back to USD rates unchanged.
func staticRates(base string) *types.ExchangeRates {
	rates := &types.ExchangeRates{
		Base:      base,
		Rates:     staticUSDRates,
		FetchedAt: time.Now().UTC(),
		Source:    "static",
	}

	baseRate, ok := staticUSDRates[base]
	if ok && base != "USD" {
		rebased := make(map[string]float64, len(staticUSDRates))
		for currency, rate := range staticUSDRates {
			rebased[currency] = roundRate(rate / baseRate)
		}
		rates.Rates = rebased
	}
	return rates
}

func roundRate(v float64) float64 {
	scaled := decimal.NewFromFloat(v).Round(6)
	f, _ := scaled.Float64()
	return f
}

var supportedCurrencies = []types.CurrencyInfo{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "Fr"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "BDT", Name: "Bangladeshi Taka", Symbol: "৳"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿"},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "$"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R"},
	{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$"},
	{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ"},
	{Code: "SAR", Name: "Saudi Riyal", Symbol: "ر.س"},
}
