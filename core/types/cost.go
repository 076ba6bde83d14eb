// Package types - Cost aggregation types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Subtotal accumulates usage and cost for one bucket of intervals
type Subtotal struct {
	Records int             `json:"records"`
	Usage   decimal.Decimal `json:"usage"`
	Cost    decimal.Decimal `json:"cost"`
}

// Add folds one classified interval into the subtotal
func (s *Subtotal) Add(ci ClassifiedInterval) {
	s.Records++
	s.Usage = s.Usage.Add(ci.Net)
	s.Cost = s.Cost.Add(ci.Cost)
}

// Merge folds another subtotal into this one
func (s *Subtotal) Merge(other Subtotal) {
	s.Records += other.Records
	s.Usage = s.Usage.Add(other.Usage)
	s.Cost = s.Cost.Add(other.Cost)
}

// Rounded returns a copy rounded for display. Accumulation always
// happens on the unrounded values.
func (s Subtotal) Rounded(places int32) Subtotal {
	return Subtotal{
		Records: s.Records,
		Usage:   s.Usage.Round(places),
		Cost:    s.Cost.Round(places),
	}
}

// Summary is the aggregate of a sequence of classified intervals,
// broken down by tariff period and by season.
type Summary struct {
	Total    Subtotal             `json:"total"`
	ByPeriod [NumPeriods]Subtotal `json:"by_period"`
	BySeason [NumSeasons]Subtotal `json:"by_season"`
}

// Add folds one classified interval into the summary
func (s *Summary) Add(ci ClassifiedInterval) {
	s.Total.Add(ci)
	s.ByPeriod[ci.Period].Add(ci)
	s.BySeason[ci.Season].Add(ci)
}

// Merge folds another summary into this one
func (s *Summary) Merge(other Summary) {
	s.Total.Merge(other.Total)
	for i := range s.ByPeriod {
		s.ByPeriod[i].Merge(other.ByPeriod[i])
	}
	for i := range s.BySeason {
		s.BySeason[i].Merge(other.BySeason[i])
	}
}

// Period returns the subtotal for a tariff period
func (s Summary) Period(p TariffPeriod) Subtotal {
	return s.ByPeriod[p]
}

// Season returns the subtotal for a season
func (s Summary) Season(season Season) Subtotal {
	return s.BySeason[season]
}

// Rounded returns a copy of the summary rounded for display
func (s Summary) Rounded(places int32) Summary {
	out := Summary{Total: s.Total.Rounded(places)}
	for i := range s.ByPeriod {
		out.ByPeriod[i] = s.ByPeriod[i].Rounded(places)
	}
	for i := range s.BySeason {
		out.BySeason[i] = s.BySeason[i].Rounded(places)
	}
	return out
}
