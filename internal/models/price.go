package models

import "github.com/sheeranchan/nifty-backend/internal/dates"

// PriceRecord is one stored row of the dataset. Price fields are pointers:
// nil means the value was accepted but suppressed by the deviation screen,
// not that the field is missing.
type PriceRecord struct {
	Date   dates.Date `json:"Date"`
	Symbol string     `json:"Symbol"`
	Open   *float64   `json:"Open"`
	High   *float64   `json:"High"`
	Low    *float64   `json:"Low"`
	Close  *float64   `json:"Close"`
}

// IngestRecord is one element of an ingestion batch as it arrives on the
// wire. Every field is optional in transit; the pipeline decides what
// absence means per field. Date is DD/MM/YYYY here, never ISO.
type IngestRecord struct {
	Date   string   `json:"Date"`
	Symbol string   `json:"Symbol"`
	Open   *float64 `json:"Open"`
	High   *float64 `json:"High"`
	Low    *float64 `json:"Low"`
	Close  *float64 `json:"Close"`
}
