// Package calendar classifies interval timestamps into season, day type
// and Time-of-Use period.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// HolidaySet is a set of specific, year-dated calendar days that use the
// weekend/holiday schedule. Matching is by exact date: a 2025-07-04 entry
// says nothing about 2026-07-04.
type HolidaySet struct {
	dates map[civil.Date]struct{}
}

// NewHolidaySet creates a holiday set from dates
func NewHolidaySet(dates ...civil.Date) HolidaySet {
	set := HolidaySet{dates: make(map[civil.Date]struct{}, len(dates))}
	for _, d := range dates {
		set.dates[d] = struct{}{}
	}
	return set
}

// ParseHolidays parses holiday dates in ISO form (2025-07-04) or in the
// US form utilities publish schedules with (7/4/2025).
func ParseHolidays(values []string) (HolidaySet, error) {
	dates := make([]civil.Date, 0, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return HolidaySet{}, err
		}
		dates = append(dates, d)
	}
	return NewHolidaySet(dates...), nil
}

// ParseDate parses a single holiday date
func ParseDate(value string) (civil.Date, error) {
	v := strings.TrimSpace(value)
	if d, err := civil.ParseDate(v); err == nil {
		return d, nil
	}
	t, err := time.Parse("1/2/2006", v)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid holiday date %q: want YYYY-MM-DD or M/D/YYYY", value)
	}
	return civil.DateOf(t), nil
}

// Contains reports whether the calendar date is a holiday
func (h HolidaySet) Contains(d civil.Date) bool {
	_, ok := h.dates[d]
	return ok
}

// ContainsTime reports whether the calendar date of t is a holiday.
// The date is read in t's own location.
func (h HolidaySet) ContainsTime(t time.Time) bool {
	return h.Contains(civil.DateOf(t))
}

// Len returns the number of holidays
func (h HolidaySet) Len() int {
	return len(h.dates)
}

// Dates returns the holidays in chronological order
func (h HolidaySet) Dates() []civil.Date {
	out := make([]civil.Date, 0, len(h.dates))
	for d := range h.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
