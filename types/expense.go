package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies a spend entry.
type ExpenseCategory string

const (
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryTransport     ExpenseCategory = "transport"
	ExpenseCategoryAccommodation ExpenseCategory = "accommodation"
	ExpenseCategoryActivities    ExpenseCategory = "activities"
	ExpenseCategoryShopping      ExpenseCategory = "shopping"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryFood, ExpenseCategoryTransport, ExpenseCategoryAccommodation,
		ExpenseCategoryActivities, ExpenseCategoryShopping, ExpenseCategoryOther:
		return true
	default:
		return false
	}
}

// Expense is a spend entry on a trip. Amounts use decimal arithmetic, never
// floats.
type Expense struct {
	ID        string          `json:"id"`
	TripID    string          `json:"tripId"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Category  ExpenseCategory `json:"category"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ExpenseUpdate carries mutable expense fields; nil means unchanged.
type ExpenseUpdate struct {
	Title    *string          `json:"title,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	Category *ExpenseCategory `json:"category,omitempty"`
	Date     *time.Time       `json:"date,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}

// ExpenseSummary is the per-trip rollup grouped by currency and category.
type ExpenseSummary struct {
	TotalsByCurrency map[string]decimal.Decimal          `json:"totalsByCurrency"`
	ByCategory       map[ExpenseCategory]decimal.Decimal `json:"byCategory"`
	CountByCategory  map[ExpenseCategory]int             `json:"countByCategory"`
	Count            int                                 `json:"count"`
}
