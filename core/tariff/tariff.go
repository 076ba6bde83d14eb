// Package tariff holds the Time-of-Use tariff configuration: the rate table,
// the holiday calendar and the season months. A Tariff is an explicit value
// handed to the engine; nothing here is process-wide state.
package tariff

import (
	"fmt"
	"strings"
	"time"

	"tou-cost/core/calendar"
	"tou-cost/core/determinism"
	"tou-cost/core/pricing"
	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
)

// Tariff is one complete rate schedule. Treat it as immutable once it has
// been validated; Store keeps its own copy.
type Tariff struct {
	// Name is a display name, e.g. "SDG&E TOU-DR"
	Name string

	// Currency of every price in Rates
	Currency types.Currency

	// Rates maps every season/period pair to a unit price
	Rates pricing.RateTable

	// Holidays are year-dated days billed on the weekend schedule
	Holidays calendar.HolidaySet

	// SummerMonths overrides calendar.DefaultSummerMonths when non-empty
	SummerMonths []time.Month

	// Location, when set, is the zone interval timestamps are read in
	Location *time.Location

	// Schedule overrides calendar.DefaultSchedule when set
	Schedule *calendar.Schedule
}

// Validate checks the rate table for completeness and the calendar
// settings for consistency
func (t *Tariff) Validate() error {
	if err := t.Rates.Validate(); err != nil {
		return err
	}
	if _, err := t.Classifier(); err != nil {
		return err
	}
	return nil
}

// Classifier builds the calendar classifier for this tariff
func (t *Tariff) Classifier() (*calendar.Classifier, error) {
	var opts []calendar.Option
	if len(t.SummerMonths) > 0 {
		opts = append(opts, calendar.WithSummerMonths(t.SummerMonths...))
	}
	if t.Location != nil {
		opts = append(opts, calendar.WithLocation(t.Location))
	}
	if t.Schedule != nil {
		opts = append(opts, calendar.WithSchedule(*t.Schedule))
	}
	return calendar.NewClassifier(t.Holidays, opts...)
}

// Calculator builds the rate calculator for this tariff
func (t *Tariff) Calculator() (*pricing.Calculator, error) {
	return pricing.NewCalculator(t.Rates)
}

// Clone returns a copy that shares no mutable state with t
func (t *Tariff) Clone() *Tariff {
	out := *t
	if t.SummerMonths != nil {
		out.SummerMonths = append([]time.Month(nil), t.SummerMonths...)
	}
	if t.Schedule != nil {
		s := t.Schedule.Clone()
		out.Schedule = &s
	}
	return &out
}

// Fingerprint is a content hash over everything that affects pricing.
// Season and period layouts are hashed in resolved form, so two tariffs
// that bill every hour identically share a fingerprint however their
// months and windows were written down.
func (t *Tariff) Fingerprint() determinism.ContentHash {
	h := determinism.NewHasher("tou-cost/tariff/v2")
	h.Write(t.Name, t.Currency.String())

	for _, e := range t.Rates.Entries() {
		h.Write(e.Season.String(), e.Period.String(), e.Price.String())
	}
	for _, d := range t.Holidays.Dates() {
		h.Write("holiday", d.String())
	}
	if t.Location != nil {
		h.Write("location", t.Location.String())
	}

	c, err := t.Classifier()
	if err != nil {
		// Unusable calendar settings; the hash only has to differ from any valid tariff.
		h.Write("calendar-error", err.Error())
		return h.Sum()
	}
	var layout strings.Builder
	for m := time.January; m <= time.December; m++ {
		layout.Reset()
		layout.WriteString(c.SeasonOf(m).String())
		for _, d := range types.DayTypes() {
			for hour := 0; hour < 24; hour++ {
				layout.WriteByte(byte('0' + c.PeriodOf(hour, m, d)))
			}
		}
		h.Write("month", fmt.Sprint(int(m)), layout.String())
	}
	return h.Sum()
}

// Describe returns a short human-readable description for logs
func (t *Tariff) Describe() string {
	name := t.Name
	if name == "" {
		name = "unnamed tariff"
	}
	return fmt.Sprintf("%s (%s, %d holidays, %s)", name, t.Currency, t.Holidays.Len(), t.Fingerprint())
}

func configError(format string, args ...interface{}) error {
	return terrors.Newf(terrors.TypeConfig, format, args...)
}
