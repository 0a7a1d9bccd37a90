package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// WeatherCacheStore persists fetched weather so a cold Redis cache does not
// always hit the provider. Coordinates are rounded to two decimals so nearby
// lookups share a row.
type WeatherCacheStore struct {
	db DB
}

// NewWeatherCacheStore creates a new WeatherCacheStore instance.
func NewWeatherCacheStore(db DB) *WeatherCacheStore {
	return &WeatherCacheStore{db: db}
}

func cacheCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// GetWeather returns the cached weather for a coordinate if it has not
// expired.
func (s *WeatherCacheStore) GetWeather(ctx context.Context, lat, lon float64) (*types.CurrentWeather, error) {
	query := `
		SELECT weather
		FROM weather_cache
		WHERE lat = $1 AND lon = $2 AND expires_at > NOW()`

	var payload []byte
	err := s.db.QueryRow(ctx, query, cacheCoord(lat), cacheCoord(lon)).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	weather := &types.CurrentWeather{}
	if err := json.Unmarshal(payload, weather); err != nil {
		return nil, err
	}
	return weather, nil
}

// SaveWeather stores fetched weather with a TTL, replacing any previous row
// for the coordinate.
func (s *WeatherCacheStore) SaveWeather(ctx context.Context, weather *types.CurrentWeather, ttlSeconds int) error {
	payload, err := json.Marshal(weather)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO weather_cache (lat, lon, location_name, country_code, weather, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW() + make_interval(secs => $6))
		ON CONFLICT (lat, lon) DO UPDATE
		SET location_name = EXCLUDED.location_name,
			country_code = EXCLUDED.country_code,
			weather = EXCLUDED.weather,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at`

	_, err = s.db.Exec(ctx, query,
		cacheCoord(weather.Latitude),
		cacheCoord(weather.Longitude),
		weather.LocationName,
		weather.CountryCode,
		payload,
		ttlSeconds,
	)
	return err
}

// RateStore persists exchange rates as a DB-backed fallback behind the Redis
// cache.
type RateStore struct {
	db DB
}

// NewRateStore creates a new RateStore instance.
func NewRateStore(db DB) *RateStore {
	return &RateStore{db: db}
}

// GetRates returns unexpired rates for a base currency.
func (s *RateStore) GetRates(ctx context.Context, base string) (*types.ExchangeRates, error) {
	query := `
		SELECT base_currency, rates, fetched_at
		FROM exchange_rates
		WHERE base_currency = $1 AND expires_at > NOW()`

	rates := &types.ExchangeRates{Source: "db"}
	var payload []byte
	err := s.db.QueryRow(ctx, query, base).Scan(&rates.Base, &payload, &rates.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &rates.Rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// SaveRates stores rates with a TTL, one row per base currency.
func (s *RateStore) SaveRates(ctx context.Context, rates *types.ExchangeRates, ttlSeconds int) error {
	payload, err := json.Marshal(rates.Rates)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO exchange_rates (base_currency, rates, fetched_at, expires_at)
		VALUES ($1, $2, NOW(), NOW() + make_interval(secs => $3))
		ON CONFLICT (base_currency) DO UPDATE
		SET rates = EXCLUDED.rates,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at`

	_, err = s.db.Exec(ctx, query, rates.Base, payload, ttlSeconds)
	return err
}
