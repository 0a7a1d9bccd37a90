package types

import "time"

// PackingCategory classifies a packing-list item.
type PackingCategory string

const (
	PackingCategoryClothes     PackingCategory = "clothes"
	PackingCategoryToiletries  PackingCategory = "toiletries"
	PackingCategoryElectronics PackingCategory = "electronics"
	PackingCategoryDocuments   PackingCategory = "documents"
	PackingCategoryMedicine    PackingCategory = "medicine"
	PackingCategoryOther       PackingCategory = "other"
)

func (c PackingCategory) IsValid() bool {
	switch c {
	case PackingCategoryClothes, PackingCategoryToiletries, PackingCategoryElectronics,
		PackingCategoryDocuments, PackingCategoryMedicine, PackingCategoryOther:
		return true
	default:
		return false
	}
}

// PackingItem is one entry on a trip's packing list.
type PackingItem struct {
	ID        string          `json:"id"`
	TripID    string          `json:"tripId"`
	Name      string          `json:"name"`
	Category  PackingCategory `json:"category"`
	IsPacked  bool            `json:"isPacked"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	SortOrder int             `json:"sortOrder"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PackingItemUpdate carries mutable packing fields; nil means unchanged.
type PackingItemUpdate struct {
	Name     *string          `json:"name,omitempty"`
	Category *PackingCategory `json:"category,omitempty"`
	IsPacked *bool            `json:"isPacked,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

// PackingProgress summarizes packed counts for one trip, overall and per
// category.
type PackingProgress struct {
	Total      int                                `json:"total"`
	Packed     int                                `json:"packed"`
	Percent    float64                            `json:"percent"`
	ByCategory map[PackingCategory]*CategoryCount `json:"byCategory"`
}

type CategoryCount struct {
	Total  int `json:"total"`
	Packed int `json:"packed"`
}
