package types

import "time"

// ActivityCategory classifies an itinerary entry.
type ActivityCategory string

const (
	ActivityCategoryFood    ActivityCategory = "food"
	ActivityCategoryTravel  ActivityCategory = "travel"
	ActivityCategoryStay    ActivityCategory = "stay"
	ActivityCategoryExplore ActivityCategory = "explore"
)

func (c ActivityCategory) IsValid() bool {
	switch c {
	case ActivityCategoryFood, ActivityCategoryTravel, ActivityCategoryStay, ActivityCategoryExplore:
		return true
	default:
		return false
	}
}

// Activity is a single itinerary entry on a trip. Listing order is
// sort_order, then scheduled_time.
type Activity struct {
	ID            string           `json:"id"`
	TripID        string           `json:"tripId"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	ScheduledTime *time.Time       `json:"scheduledTime,omitempty"`
	Category      ActivityCategory `json:"category"`
	SortOrder     int              `json:"sortOrder"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ActivityUpdate carries mutable activity fields; nil means unchanged.
type ActivityUpdate struct {
	Title         *string           `json:"title,omitempty"`
	Description   *string           `json:"description,omitempty"`
	ScheduledTime *time.Time        `json:"scheduledTime,omitempty"`
	Category      *ActivityCategory `json:"category,omitempty"`
	Latitude      *float64          `json:"latitude,omitempty"`
	Longitude     *float64          `json:"longitude,omitempty"`
}
