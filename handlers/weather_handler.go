package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// WeatherHandler serves current conditions and forecasts.
type WeatherHandler struct {
	weather *services.WeatherService
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(weather *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// Current handles GET /v1/weather/current?lat=&lon=.
func (h *WeatherHandler) Current(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lon, ok := parseFloatQuery(c, "lon")
	if !ok {
		return
	}

	weather, err := h.weather.GetCurrentWeather(c.Request.Context(), lat, lon)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(weather))
}

// Forecast handles GET /v1/weather/forecast?lat=&lon=&days=.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lon, ok := parseFloatQuery(c, "lon")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "5"))

	forecast, err := h.weather.GetForecast(c.Request.Context(), lat, lon, days)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(forecast))
}

// TripWeather handles GET /v1/weather/trip/:id?lat=&lon=. Coordinates come
// from the client because trips store free-form destination names.
func (h *WeatherHandler) TripWeather(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lon, ok := parseFloatQuery(c, "lon")
	if !ok {
		return
	}

	weather, err := h.weather.GetTripWeather(c.Request.Context(), c.Param("id"), userID, lat, lon)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(weather))
}
