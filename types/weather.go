package types

import "time"

// CurrentWeather is a point-in-time conditions report for a coordinate.
type CurrentWeather struct {
	LocationName string    `json:"locationName,omitempty"`
	CountryCode  string    `json:"countryCode,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	TempC        float64   `json:"tempC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	Condition    string    `json:"condition"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Humidity     int       `json:"humidity"`
	WindKph      float64   `json:"windKph"`
	FetchedAt    time.Time `json:"fetchedAt"`
	IsMock       bool      `json:"isMock,omitempty"`
}

// ForecastDay is one day of a multi-day forecast.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	TempMinC    float64   `json:"tempMinC"`
	TempMaxC    float64   `json:"tempMaxC"`
	Condition   string    `json:"condition"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	RainChance  float64   `json:"rainChance"`
}

// Forecast is the forecast response for a coordinate.
type Forecast struct {
	LocationName string         `json:"locationName,omitempty"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Days         []*ForecastDay `json:"days"`
	IsMock       bool           `json:"isMock,omitempty"`
}

// TripWeather is the forecast filtered to a trip's dates plus rule-based
// packing suggestions derived from it.
type TripWeather struct {
	TripID      string         `json:"tripId"`
	Destination string         `json:"destination,omitempty"`
	Days        []*ForecastDay `json:"days"`
	Suggestions []string       `json:"suggestions,omitempty"`
	IsMock      bool           `json:"isMock,omitempty"`
}
