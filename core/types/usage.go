// Package types - Interval usage types
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageInterval is one metered row of a Green Button export.
// It is owned by the caller and never modified by the engine.
type UsageInterval struct {
	// Start is the interval start; its hour selects the tariff period
	Start time.Time `json:"start"`

	// Duration is the interval length (informational)
	Duration time.Duration `json:"duration,omitempty"`

	// Consumption is energy drawn from the grid, when the export provides it
	Consumption decimal.Decimal `json:"consumption"`

	// Generation is energy exported to the grid, when the export provides it
	Generation decimal.Decimal `json:"generation"`

	// Net is the billed quantity; negative means net export
	Net decimal.Decimal `json:"net"`
}

// ClassifiedInterval is a UsageInterval enriched with its tariff
// classification and price. Cost is always Net * Rate, unrounded.
type ClassifiedInterval struct {
	UsageInterval

	Season  Season          `json:"season"`
	DayType DayType         `json:"day_type"`
	Period  TariffPeriod    `json:"period"`
	Rate    decimal.Decimal `json:"rate"`
	Cost    decimal.Decimal `json:"cost"`
}
