package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

func TestWeatherService_GetCurrentWeather(t *testing.T) {
	t.Run("invalid coordinates rejected", func(t *testing.T) {
		svc := NewWeatherService(nil, nil, nil, nil, "", "")

		_, err := svc.GetCurrentWeather(context.Background(), 91, 0)
		assertAppError(t, err, apperrors.ValidationError)

		_, err = svc.GetCurrentWeather(context.Background(), 0, -181)
		assertAppError(t, err, apperrors.ValidationError)
	})

	t.Run("no api key returns mock data", func(t *testing.T) {
		svc := NewWeatherService(nil, nil, nil, nil, "", "")

		weather, err := svc.GetCurrentWeather(context.Background(), 35.01, 135.77)
		require.NoError(t, err)
		assert.True(t, weather.IsMock)
		assert.Equal(t, 35.01, weather.Latitude)
		assert.Equal(t, 135.77, weather.Longitude)
	})

	t.Run("provider response is parsed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/weather", r.URL.Path)
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"name": "Kyoto",
				"coord": {"lat": 35.01, "lon": 135.77},
				"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}],
				"main": {"temp": 18.5, "feels_like": 17.9, "humidity": 80},
				"wind": {"speed": 5.0},
				"sys": {"country": "JP"}
			}`))
		}))
		defer server.Close()

		svc := NewWeatherService(nil, nil, nil, nil, "test-key", server.URL)

		weather, err := svc.GetCurrentWeather(context.Background(), 35.01, 135.77)
		require.NoError(t, err)
		assert.False(t, weather.IsMock)
		assert.Equal(t, "Kyoto", weather.LocationName)
		assert.Equal(t, "JP", weather.CountryCode)
		assert.Equal(t, "Rain", weather.Condition)
		assert.Equal(t, 18.5, weather.TempC)
		assert.Equal(t, 80, weather.Humidity)
		assert.InDelta(t, 18.0, weather.WindKph, 1e-9) // m/s converted to km/h
	})

	t.Run("provider failure falls back to mock", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		svc := NewWeatherService(nil, nil, nil, nil, "test-key", server.URL)

		weather, err := svc.GetCurrentWeather(context.Background(), 35.01, 135.77)
		require.NoError(t, err)
		assert.True(t, weather.IsMock)
	})
}

func TestWeatherService_GetForecast(t *testing.T) {
	svc := NewWeatherService(nil, nil, nil, nil, "", "")

	t.Run("defaults to five days", func(t *testing.T) {
		forecast, err := svc.GetForecast(context.Background(), 35.01, 135.77, 0)
		require.NoError(t, err)
		assert.True(t, forecast.IsMock)
		assert.Len(t, forecast.Days, 5)
	})

	t.Run("clamps to sixteen days", func(t *testing.T) {
		forecast, err := svc.GetForecast(context.Background(), 35.01, 135.77, 30)
		require.NoError(t, err)
		assert.Len(t, forecast.Days, 16)
	})
}

func TestWeatherService_GetTripWeather(t *testing.T) {
	end := time.Now().UTC().Add(48 * time.Hour)
	trip := &types.Trip{
		ID:          "trip-1",
		UserID:      "owner-1",
		Title:       "Kyoto in Autumn",
		Destination: "Kyoto, Japan",
		StartDate:   time.Now().UTC(),
		EndDate:     &end,
		Status:      types.TripStatusPlanned,
	}
	trips := &stubTripStore{getTrip: func(_ context.Context, id string) (*types.Trip, error) {
		if id == "trip-1" {
			return trip, nil
		}
		return nil, store.ErrNotFound
	}}
	sharing := NewSharingService(&stubShareStore{
		getAcceptedShare: func(_ context.Context, tripID, userID, email string) (*types.TripShare, error) {
			return nil, store.ErrNotFound
		},
	}, trips, &stubUserStore{
		getUserByID: func(_ context.Context, id string) (*types.User, error) {
			return &types.User{ID: id, Email: id + "@example.com"}, nil
		},
	}, nil)

	t.Run("forecast restricted to trip window", func(t *testing.T) {
		svc := NewWeatherService(nil, trips, sharing, nil, "", "")

		tw, err := svc.GetTripWeather(context.Background(), "trip-1", "owner-1", 35.01, 135.77)
		require.NoError(t, err)
		assert.Equal(t, "Kyoto, Japan", tw.Destination)
		assert.True(t, tw.IsMock)
		assert.Len(t, tw.Days, 3)
		assert.NotEmpty(t, tw.Suggestions)
	})

	t.Run("stranger sees not found", func(t *testing.T) {
		svc := NewWeatherService(nil, trips, sharing, nil, "", "")

		_, err := svc.GetTripWeather(context.Background(), "trip-1", "stranger", 35.01, 135.77)
		assertAppError(t, err, apperrors.NotFoundError)
	})
}

func TestPackingSuggestions(t *testing.T) {
	day := func(min, max, rain float64, condition string) *types.ForecastDay {
		return &types.ForecastDay{
			Date:       time.Now().UTC(),
			TempMinC:   min,
			TempMaxC:   max,
			RainChance: rain,
			Condition:  condition,
		}
	}

	t.Run("empty window", func(t *testing.T) {
		suggestions := packingSuggestions(nil)
		require.Len(t, suggestions, 1)
		assert.Contains(t, suggestions[0], "Check weather closer to your trip")
	})

	t.Run("hot weather", func(t *testing.T) {
		suggestions := packingSuggestions([]*types.ForecastDay{day(24, 34, 0, "Clear")})
		assert.Contains(t, suggestions, "Pack light, breathable clothing for hot weather")
		assert.Contains(t, suggestions, "Bring sunscreen and a hat")
		assert.Contains(t, suggestions, "Sunny days ahead - don't forget sunglasses")
	})

	t.Run("freezing weather", func(t *testing.T) {
		suggestions := packingSuggestions([]*types.ForecastDay{day(-5, 2, 0, "Snow")})
		assert.Contains(t, suggestions, "Pack heavy winter clothing")
		assert.Contains(t, suggestions, "Consider thermal underwear")
		assert.Contains(t, suggestions, "Snow expected - pack waterproof boots")
	})

	t.Run("rainy window", func(t *testing.T) {
		suggestions := packingSuggestions([]*types.ForecastDay{
			day(12, 22, 10, "Clouds"),
			day(13, 21, 60, "Rain"),
		})
		assert.Contains(t, suggestions, "Pack a rain jacket or umbrella")
		assert.Contains(t, suggestions, "Waterproof shoes recommended")
	})

	t.Run("capped at six suggestions", func(t *testing.T) {
		suggestions := packingSuggestions([]*types.ForecastDay{
			day(-5, 5, 80, "Snow"),
			day(0, 8, 50, "Rain"),
		})
		assert.LessOrEqual(t, len(suggestions), 6)
	})
}
