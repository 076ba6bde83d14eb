// Package pricing resolves Time-of-Use unit prices and computes interval costs.
// All money math is decimal; nothing is rounded before display.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
)

// rateEntry is one cell of the rate table
type rateEntry struct {
	price decimal.Decimal
	set   bool
}

// RateTable is a total mapping over Season x TariffPeriod. The zero value
// has every cell missing; Validate reports any cell still missing.
type RateTable struct {
	entries [types.NumSeasons][types.NumPeriods]rateEntry
}

// Set stores the unit price for a season/period pair
func (t *RateTable) Set(season types.Season, period types.TariffPeriod, price decimal.Decimal) error {
	if !season.IsValid() || !period.IsValid() {
		return terrors.Newf(terrors.TypeInput, "invalid rate key %s/%s", season, period)
	}
	t.entries[season][period] = rateEntry{price: price, set: true}
	return nil
}

// SetString parses and stores a unit price
func (t *RateTable) SetString(season types.Season, period types.TariffPeriod, price string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return terrors.Parsing(fmt.Sprintf("invalid price %q for %s/%s", price, season, period), err)
	}
	return t.Set(season, period, d)
}

// Lookup returns the unit price for a season/period pair. A missing pair is
// a MISSING_RATE_ENTRY error; there is no fallback price.
func (t *RateTable) Lookup(season types.Season, period types.TariffPeriod) (decimal.Decimal, error) {
	if !season.IsValid() || !period.IsValid() {
		return decimal.Decimal{}, terrors.MissingRateEntry(season.String(), period.String())
	}
	e := t.entries[season][period]
	if !e.set {
		return decimal.Decimal{}, terrors.MissingRateEntry(season.String(), period.String())
	}
	return e.price, nil
}

// Has reports whether a price is set for the pair
func (t *RateTable) Has(season types.Season, period types.TariffPeriod) bool {
	_, err := t.Lookup(season, period)
	return err == nil
}

// Validate checks that every season/period pair has a non-negative price.
// All problems are reported in one INVALID_RATE_TABLE error.
func (t *RateTable) Validate() error {
	var problems []string
	var firstMissing error

	for _, s := range types.Seasons() {
		for _, p := range types.Periods() {
			e := t.entries[s][p]
			switch {
			case !e.set:
				problems = append(problems, fmt.Sprintf("missing %s/%s", s, p))
				if firstMissing == nil {
					firstMissing = terrors.MissingRateEntry(s.String(), p.String())
				}
			case e.price.IsNegative():
				problems = append(problems, fmt.Sprintf("negative price %s for %s/%s", e.price, s, p))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return terrors.InvalidRateTable("rate table invalid: "+strings.Join(problems, "; "), firstMissing).
		WithContext("problems", problems)
}

// Entries returns the set cells in season, then period, order
func (t *RateTable) Entries() []Entry {
	var out []Entry
	for _, s := range types.Seasons() {
		for _, p := range types.Periods() {
			if e := t.entries[s][p]; e.set {
				out = append(out, Entry{Season: s, Period: p, Price: e.price})
			}
		}
	}
	return out
}

// Entry is one priced cell of a rate table
type Entry struct {
	Season types.Season       `json:"season"`
	Period types.TariffPeriod `json:"period"`
	Price  decimal.Decimal    `json:"price"`
}
