package types

import (
	"encoding/json"
	"time"
)

// TripTemplate is a reusable trip blueprint. Structure holds the snapshot of
// activities and packing items as JSON so templates survive schema drift in
// the live tables.
type TripTemplate struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Structure   json.RawMessage `json:"structure"`
	IsPublic    bool            `json:"isPublic"`
	Category    string          `json:"category,omitempty"`
	UseCount    int             `json:"useCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TemplateStructure is the shape stored in TripTemplate.Structure.
type TemplateStructure struct {
	DurationDays int                `json:"durationDays,omitempty"`
	Destination  string             `json:"destination,omitempty"`
	Activities   []TemplateActivity `json:"activities,omitempty"`
	PackingItems []TemplatePackItem `json:"packingItems,omitempty"`
}

// TemplateActivity is an activity snapshot inside a template. DayOffset is
// days from the trip start; instantiation re-anchors it to the new dates.
type TemplateActivity struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Category    ActivityCategory `json:"category"`
	DayOffset   int              `json:"dayOffset"`
	SortOrder   int              `json:"sortOrder"`
}

// TemplatePackItem is a packing-item snapshot inside a template.
type TemplatePackItem struct {
	Name     string          `json:"name"`
	Category PackingCategory `json:"category"`
	Quantity int             `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// TemplateUpdate carries mutable template fields; nil means unchanged.
type TemplateUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Category    *string `json:"category,omitempty"`
}
