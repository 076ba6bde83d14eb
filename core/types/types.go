// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"fmt"
	"strings"
)

// Season selects which half of the rate table applies
type Season int

const (
	SeasonSummer Season = iota
	SeasonWinter

	// NumSeasons is the number of seasons a rate table is keyed by
	NumSeasons = 2
)

var seasonNames = [NumSeasons]string{"summer", "winter"}

// Seasons returns every season in table order
func Seasons() []Season {
	return []Season{SeasonSummer, SeasonWinter}
}

// String returns the string representation
func (s Season) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("season(%d)", int(s))
	}
	return seasonNames[s]
}

// IsValid checks if the season is a known season
func (s Season) IsValid() bool {
	return s >= 0 && int(s) < NumSeasons
}

// MarshalText implements encoding.TextMarshaler
func (s Season) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid season %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Season) UnmarshalText(text []byte) error {
	parsed, err := ParseSeason(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeason parses a season name, case-insensitively
func ParseSeason(name string) (Season, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range seasonNames {
		if n == candidate {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("unknown season %q", name)
}

// TariffPeriod is a Time-of-Use pricing period
type TariffPeriod int

const (
	PeriodOnPeak TariffPeriod = iota
	PeriodOffPeak
	PeriodSuperOffPeak

	// NumPeriods is the number of periods a rate table is keyed by
	NumPeriods = 3
)

var periodNames = [NumPeriods]string{"on_peak", "off_peak", "super_off_peak"}

// Periods returns every tariff period, highest price first
func Periods() []TariffPeriod {
	return []TariffPeriod{PeriodOnPeak, PeriodOffPeak, PeriodSuperOffPeak}
}

// String returns the string representation
func (p TariffPeriod) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("period(%d)", int(p))
	}
	return periodNames[p]
}

// IsValid checks if the period is a known period
func (p TariffPeriod) IsValid() bool {
	return p >= 0 && int(p) < NumPeriods
}

// MarshalText implements encoding.TextMarshaler
func (p TariffPeriod) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid tariff period %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *TariffPeriod) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeriod parses a period name. Hyphens and spaces are accepted in
// place of underscores ("super-off-peak", "Off Peak").
func ParsePeriod(name string) (TariffPeriod, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	for i, candidate := range periodNames {
		if n == candidate {
			return TariffPeriod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tariff period %q", name)
}

// DayType distinguishes the weekday schedule from the weekend/holiday schedule
type DayType int

const (
	DayWeekday DayType = iota
	DayWeekendOrHoliday

	// NumDayTypes is the number of day schedules a tariff defines
	NumDayTypes = 2
)

var dayTypeNames = [NumDayTypes]string{"weekday", "weekend_holiday"}

// DayTypes returns every day type in schedule order
func DayTypes() []DayType {
	return []DayType{DayWeekday, DayWeekendOrHoliday}
}

// String returns the string representation
func (d DayType) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("daytype(%d)", int(d))
	}
	return dayTypeNames[d]
}

// IsValid checks if the day type is known
func (d DayType) IsValid() bool {
	return d >= 0 && int(d) < NumDayTypes
}

// MarshalText implements encoding.TextMarshaler
func (d DayType) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid day type %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *DayType) UnmarshalText(text []byte) error {
	parsed, err := ParseDayType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDayType parses a day type name; "weekend" and "holiday" both select
// the weekend/holiday schedule
func ParseDayType(name string) (DayType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	switch n {
	case "weekday":
		return DayWeekday, nil
	case "weekend_holiday", "weekend", "holiday":
		return DayWeekendOrHoliday, nil
	}
	return 0, fmt.Errorf("unknown day type %q", name)
}
