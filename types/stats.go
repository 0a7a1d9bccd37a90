package types

import "time"

// OverallStatistics is the read-only rollup across everything a user owns.
type OverallStatistics struct {
	Trips        TripStats        `json:"trips"`
	Activities   ActivityStats    `json:"activities"`
	Memories     MemoryStats      `json:"memories"`
	Expenses     ExpenseStats     `json:"expenses"`
	Packing      PackingStats     `json:"packing"`
	Social       SocialStats      `json:"social"`
	Achievements AchievementStats `json:"achievements"`
	MemberSince  time.Time        `json:"memberSince"`
}

type TripStats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	ByYear          map[int]int    `json:"byYear"`
	AvgDurationDays float64        `json:"avgDurationDays"`
	TotalDays       int            `json:"totalDays"` // days traveled, completed trips only
	Destinations    int            `json:"destinations"`
}

type ActivityStats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
}

type MemoryStats struct {
	Total        int `json:"total"`
	WithLocation int `json:"withLocation"`
}

type ExpenseStats struct {
	Total            int               `json:"total"`
	TotalsByCurrency map[string]string `json:"totalsByCurrency"`
}

type PackingStats struct {
	TotalItems     int `json:"totalItems"`
	PackedItems    int `json:"packedItems"`
	CompletedLists int `json:"completedLists"`
}

type SocialStats struct {
	SharesCreated  int `json:"sharesCreated"`
	SharesAccepted int `json:"sharesAccepted"`
	TripsSharedIn  int `json:"tripsSharedIn"`
}

type AchievementStats struct {
	TotalPoints int `json:"totalPoints"`
	EarnedCount int `json:"earnedCount"`
}

// YearInReview is the per-year recap.
type YearInReview struct {
	Year           int            `json:"year"`
	TripCount      int            `json:"tripCount"`
	CompletedTrips int            `json:"completedTrips"`
	DaysTraveled   int            `json:"daysTraveled"`
	Destinations   []string       `json:"destinations"`
	ActivityCount  int           `json:"activityCount"`
	MemoryCount    int           `json:"memoryCount"`
	TopCategory    string        `json:"topCategory,omitempty"`
	LongestTrip    *TimelineTrip `json:"longestTrip,omitempty"`
}

// TimelineTrip is one entry in the reverse-chronological travel timeline.
type TimelineTrip struct {
	TripID        string     `json:"tripId"`
	Title         string     `json:"title"`
	Destination   string     `json:"destination,omitempty"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Status        TripStatus `json:"status"`
	DurationDays  int        `json:"durationDays"`
	ActivityCount int        `json:"activityCount"`
	MemoryCount   int        `json:"memoryCount"`
}

// Timeline wraps a page of timeline entries.
type Timeline struct {
	Trips  []*TimelineTrip `json:"trips"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
