package types

import "time"

// Memory is a geotagged photo attached to a trip.
type Memory struct {
	ID        string     `json:"id"`
	TripID    string     `json:"tripId"`
	PhotoURL  string     `json:"photoUrl"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
