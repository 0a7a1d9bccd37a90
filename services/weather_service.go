package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/logger"
	"github.com/odyssey-travel/odyssey-backend/types"
)

const (
	weatherCacheTTL = 3 * time.Hour
	maxForecastDays = 16
)

// WeatherService serves current conditions and forecasts for coordinates.
// Lookups go Redis first, then the DB-backed cache, then OpenWeatherMap;
// when no API key is configured or the provider fails it falls back to
// deterministic mock data flagged with IsMock.
type WeatherService struct {
	cache   store.WeatherCacheStore
	trips   store.TripStore
	sharing *SharingService
	redis   *redis.Client
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewWeatherService creates a WeatherService. redisClient may be nil, in
// which case only the DB cache is used.
func NewWeatherService(cache store.WeatherCacheStore, trips store.TripStore, sharing *SharingService, redisClient *redis.Client, apiKey, baseURL string) *WeatherService {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &WeatherService{
		cache:   cache,
		trips:   trips,
		sharing: sharing,
		redis:   redisClient,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// GetCurrentWeather returns current conditions for a coordinate.
func (s *WeatherService) GetCurrentWeather(ctx context.Context, lat, lon float64) (*types.CurrentWeather, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("weather:current:%.2f:%.2f", lat, lon)
	if s.redis != nil {
		var cached types.CurrentWeather
		if payload, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	if s.cache != nil {
		if cached, err := s.cache.GetWeather(ctx, lat, lon); err == nil {
			return cached, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			logger.GetLogger().Warnw("Weather cache lookup failed", "error", err)
		}
	}

	weather := s.fetchCurrentWeather(ctx, lat, lon)
	if !weather.IsMock {
		s.storeWeather(ctx, cacheKey, weather)
	}
	return weather, nil
}

// GetForecast returns a daily forecast for a coordinate, up to 16 days.
func (s *WeatherService) GetForecast(ctx context.Context, lat, lon float64, days int) (*types.Forecast, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if days < 1 {
		days = 5
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	cacheKey := fmt.Sprintf("weather:forecast:%.2f:%.2f:%d", lat, lon, days)
	if s.redis != nil {
		var cached types.Forecast
		if payload, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	forecast := s.fetchForecast(ctx, lat, lon, days)
	if !forecast.IsMock && s.redis != nil {
		if payload, err := json.Marshal(forecast); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, weatherCacheTTL).Err(); err != nil {
				logger.GetLogger().Warnw("Failed to cache forecast", "error", err)
			}
		}
	}
	return forecast, nil
}

// GetTripWeather returns the forecast restricted to a trip's dates plus
// packing suggestions derived from it. The caller must be able to view the
// trip; coordinates come from the caller since trips store free-form
// destinations.
func (s *WeatherService) GetTripWeather(ctx context.Context, tripID, userID string, lat, lon float64) (*types.TripWeather, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Trip", tripID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	end := trip.StartDate
	if trip.EndDate != nil {
		end = *trip.EndDate
	}

	// The provider only forecasts from today, so request enough days to
	// reach the trip's end and filter down to the trip window.
	days := int(time.Until(end).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	forecast, err := s.GetForecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}

	startDay := truncateToDay(trip.StartDate)
	endDay := truncateToDay(end)
	var tripDays []*types.ForecastDay
	for _, day := range forecast.Days {
		d := truncateToDay(day.Date)
		if !d.Before(startDay) && !d.After(endDay) {
			tripDays = append(tripDays, day)
		}
	}

	return &types.TripWeather{
		TripID:      tripID,
		Destination: trip.Destination,
		Days:        tripDays,
		Suggestions: packingSuggestions(tripDays),
		IsMock:      forecast.IsMock,
	}, nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.ValidationFailed("Invalid coordinates", "latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperrors.ValidationFailed("Invalid coordinates", "longitude must be between -180 and 180")
	}
	return nil
}

func (s *WeatherService) storeWeather(ctx context.Context, cacheKey string, weather *types.CurrentWeather) {
	log := logger.GetLogger()
	if s.redis != nil {
		if payload, err := json.Marshal(weather); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, weatherCacheTTL).Err(); err != nil {
				log.Warnw("Failed to cache weather in Redis", "error", err)
			}
		}
	}
	if s.cache != nil {
		if err := s.cache.SaveWeather(ctx, weather, int(weatherCacheTTL.Seconds())); err != nil {
			log.Warnw("Failed to cache weather in DB", "error", err)
		}
	}
}

// openWeatherMap /weather response, reduced to the fields we keep.
type owmCurrentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type owmForecastResponse struct {
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

func (s *WeatherService) fetchCurrentWeather(ctx context.Context, lat, lon float64) *types.CurrentWeather {
	if s.apiKey == "" {
		return mockCurrentWeather(lat, lon)
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	var parsed owmCurrentResponse
	if err := s.getJSON(ctx, s.baseURL+"/weather?"+params.Encode(), &parsed); err != nil {
		logger.GetLogger().Warnw("Weather fetch failed, returning mock data", "error", err)
		return mockCurrentWeather(lat, lon)
	}

	weather := &types.CurrentWeather{
		LocationName: parsed.Name,
		CountryCode:  parsed.Sys.Country,
		Latitude:     parsed.Coord.Lat,
		Longitude:    parsed.Coord.Lon,
		TempC:        parsed.Main.Temp,
		FeelsLikeC:   parsed.Main.FeelsLike,
		Humidity:     parsed.Main.Humidity,
		WindKph:      parsed.Wind.Speed * 3.6,
		FetchedAt:    time.Now().UTC(),
	}
	if len(parsed.Weather) > 0 {
		weather.Condition = parsed.Weather[0].Main
		weather.Description = parsed.Weather[0].Description
		weather.Icon = parsed.Weather[0].Icon
	}
	return weather
}

func (s *WeatherService) fetchForecast(ctx context.Context, lat, lon float64, days int) *types.Forecast {
	if s.apiKey == "" {
		return mockForecast(lat, lon, days)
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")
	// The 5-day endpoint returns 3-hourly entries, 8 per day.
	params.Set("cnt", fmt.Sprintf("%d", days*8))

	var parsed owmForecastResponse
	if err := s.getJSON(ctx, s.baseURL+"/forecast?"+params.Encode(), &parsed); err != nil {
		logger.GetLogger().Warnw("Forecast fetch failed, returning mock data", "error", err)
		return mockForecast(lat, lon, days)
	}

	// Collapse the 3-hourly entries into one item per day.
	byDay := make(map[time.Time]*types.ForecastDay)
	var order []time.Time
	for _, item := range parsed.List {
		day := truncateToDay(time.Unix(item.Dt, 0).UTC())
		entry, ok := byDay[day]
		if !ok {
			entry = &types.ForecastDay{
				Date:     day,
				TempMinC: item.Main.TempMin,
				TempMaxC: item.Main.TempMax,
			}
			if len(item.Weather) > 0 {
				entry.Condition = item.Weather[0].Main
				entry.Description = item.Weather[0].Description
				entry.Icon = item.Weather[0].Icon
			}
			byDay[day] = entry
			order = append(order, day)
		}
		if item.Main.TempMin < entry.TempMinC {
			entry.TempMinC = item.Main.TempMin
		}
		if item.Main.TempMax > entry.TempMaxC {
			entry.TempMaxC = item.Main.TempMax
		}
		if pop := item.Pop * 100; pop > entry.RainChance {
			entry.RainChance = pop
		}
	}

	forecast := &types.Forecast{
		LocationName: parsed.City.Name,
		Latitude:     parsed.City.Coord.Lat,
		Longitude:    parsed.City.Coord.Lon,
	}
	for _, day := range order {
		forecast.Days = append(forecast.Days, byDay[day])
	}
	return forecast
}

func (s *WeatherService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// packingSuggestions derives packing advice from the forecast window. At most
// six suggestions are returned.
func packingSuggestions(days []*types.ForecastDay) []string {
	if len(days) == 0 {
		return []string{"Check weather closer to your trip for packing suggestions"}
	}

	maxTemp := days[0].TempMaxC
	minTemp := days[0].TempMinC
	anyRain := false
	conditions := make(map[string]bool)
	for _, d := range days {
		if d.TempMaxC > maxTemp {
			maxTemp = d.TempMaxC
		}
		if d.TempMinC < minTemp {
			minTemp = d.TempMinC
		}
		if d.RainChance > 30 {
			anyRain = true
		}
		conditions[d.Condition] = true
	}

	var suggestions []string
	switch {
	case maxTemp > 30:
		suggestions = append(suggestions,
			"Pack light, breathable clothing for hot weather",
			"Bring sunscreen and a hat")
	case maxTemp > 20:
		suggestions = append(suggestions, "Pack layers - t-shirts and light jackets")
	case maxTemp > 10:
		suggestions = append(suggestions, "Bring a warm jacket and sweaters")
	default:
		suggestions = append(suggestions,
			"Pack heavy winter clothing",
			"Consider thermal underwear")
	}

	if minTemp < 10 {
		suggestions = append(suggestions, "Evenings will be cool - bring warm layers")
	}
	if anyRain {
		suggestions = append(suggestions,
			"Pack a rain jacket or umbrella",
			"Waterproof shoes recommended")
	}
	if conditions["Snow"] {
		suggestions = append(suggestions,
			"Snow expected - pack waterproof boots",
			"Bring gloves, scarf, and warm hat")
	}
	if conditions["Clear"] && maxTemp > 20 {
		suggestions = append(suggestions, "Sunny days ahead - don't forget sunglasses")
	}
	if conditions["Clouds"] && minTemp < 15 {
		suggestions = append(suggestions, "Overcast weather - pack a light jacket")
	}

	if len(suggestions) > 6 {
		suggestions = suggestions[:6]
	}
	return suggestions
}

func mockCurrentWeather(lat, lon float64) *types.CurrentWeather {
	return &types.CurrentWeather{
		LocationName: "Location",
		CountryCode:  "XX",
		Latitude:     lat,
		Longitude:    lon,
		TempC:        22,
		FeelsLikeC:   21,
		Condition:    "Clear",
		Description:  "clear sky",
		Icon:         "01d",
		Humidity:     55,
		WindKph:      12.6,
		FetchedAt:    time.Now().UTC(),
		IsMock:       true,
	}
}

func mockForecast(lat, lon float64, days int) *types.Forecast {
	forecast := &types.Forecast{
		LocationName: "Location",
		Latitude:     lat,
		Longitude:    lon,
		IsMock:       true,
	}

	today := truncateToDay(time.Now().UTC())
	for i := 0; i < days; i++ {
		day := &types.ForecastDay{
			Date:        today.AddDate(0, 0, i),
			TempMinC:    float64(16 + i%4),
			TempMaxC:    float64(24 + i%4),
			Condition:   "Clear",
			Description: "clear sky",
			Icon:        "01d",
		}
		if i%3 == 2 {
			day.Condition = "Clouds"
			day.Description = "scattered clouds"
			day.Icon = "03d"
			day.RainChance = 20
		}
		forecast.Days = append(forecast.Days, day)
	}
	return forecast
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
