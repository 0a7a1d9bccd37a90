package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRates is a set of rates relative to one base currency.
type ExchangeRates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt"`
	Source    string             `json:"source"` // "api", "fallback-api", "static"
}

// Conversion is the result of converting one amount between currencies.
type Conversion struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	Rate      decimal.Decimal `json:"rate"`
}

// BulkAmount is one input line of a bulk conversion.
type BulkAmount struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// BulkConversion is the result of converting several amounts into one target
// currency.
type BulkConversion struct {
	Target      string          `json:"target"`
	Conversions []*Conversion   `json:"conversions"`
	Total       decimal.Decimal `json:"total"`
	FetchedAt   time.Time       `json:"fetchedAt"`
}

// CurrencyInfo describes one supported currency.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
