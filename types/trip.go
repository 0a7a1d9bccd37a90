package types

import "time"

type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"   // Trip is being set up
	TripStatusOngoing   TripStatus = "ongoing"   // Trip is currently underway
	TripStatusCompleted TripStatus = "completed" // Trip has finished
)

// Trip is a travel journey owned by exactly one user. Deleting a trip
// cascades to its activities, memories, expenses, packing items, documents
// and shares.
type Trip struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	Destination   string     `json:"destination,omitempty"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Status        TripStatus `json:"status"`
	Tags          []string   `json:"tags,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IsValidTransition checks whether a status transition is allowed.
// Completed is terminal; planned may jump straight to completed for
// retroactive journaling.
func (ts TripStatus) IsValidTransition(next TripStatus) bool {
	transitions := map[TripStatus][]TripStatus{
		TripStatusPlanned:   {TripStatusOngoing, TripStatusCompleted},
		TripStatusOngoing:   {TripStatusCompleted},
		TripStatusCompleted: {},
	}

	allowed, ok := transitions[ts]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

func (ts TripStatus) String() string {
	return string(ts)
}

func (ts TripStatus) IsValid() bool {
	switch ts {
	case TripStatusPlanned, TripStatusOngoing, TripStatusCompleted:
		return true
	default:
		return false
	}
}

// TripUpdate carries the mutable trip fields; nil means "leave unchanged".
type TripUpdate struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"coverImageUrl,omitempty"`
	Destination   *string    `json:"destination,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}

// TripSearchCriteria filters the trip list. Zero values are ignored.
type TripSearchCriteria struct {
	Destination   string     `json:"destination,omitempty"`
	Status        TripStatus `json:"status,omitempty"`
	StartDateFrom *time.Time `json:"startDateFrom,omitempty"`
	StartDateTo   *time.Time `json:"startDateTo,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}
