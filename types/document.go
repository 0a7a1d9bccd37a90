package types

import "time"

// DocumentType is a free-form grouping key (e.g. "visa", "ticket",
// "insurance"); the grouped listing buckets by it.
type Document struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	FileURL   string    `json:"fileUrl"`
	FileType  string    `json:"fileType,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentUpdate carries mutable document fields; nil means unchanged.
type DocumentUpdate struct {
	Type  *string `json:"type,omitempty"`
	Name  *string `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}
