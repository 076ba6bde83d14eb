package calendar

import (
	"fmt"
	"time"

	"tou-cost/core/types"
)

const hoursPerDay = 24

// Window is a half-open range of local hours, [Start, End)
type Window struct {
	Start int
	End   int
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// DaySchedule lists the hour windows of each period for one day type.
// Hours no window claims are billed off-peak.
type DaySchedule struct {
	OnPeak       []Window
	OffPeak      []Window
	SuperOffPeak []Window
}

func (d DaySchedule) windows(p types.TariffPeriod) []Window {
	switch p {
	case types.PeriodOnPeak:
		return d.OnPeak
	case types.PeriodOffPeak:
		return d.OffPeak
	case types.PeriodSuperOffPeak:
		return d.SuperOffPeak
	}
	return nil
}

// Schedule is the hour-of-day layout of a Time-of-Use tariff. On weekdays
// in SpecialMonths the SpecialSuperOffPeak windows are billed super
// off-peak; they may only cover hours the weekday schedule leaves open.
type Schedule struct {
	Weekday             DaySchedule
	WeekendHoliday      DaySchedule
	SpecialMonths       []time.Month
	SpecialSuperOffPeak []Window
}

// DefaultSchedule returns the SDG&E TOU-DR layout: on-peak 16:00-21:00
// every day, super off-peak before 06:00 on weekdays and before 14:00 on
// weekends and holidays, plus 10:00-14:00 on March and April weekdays.
func DefaultSchedule() Schedule {
	return Schedule{
		Weekday: DaySchedule{
			OnPeak:       []Window{{16, 21}},
			OffPeak:      []Window{{6, 10}, {14, 16}, {21, 24}},
			SuperOffPeak: []Window{{0, 6}},
		},
		WeekendHoliday: DaySchedule{
			OnPeak:       []Window{{16, 21}},
			OffPeak:      []Window{{14, 16}, {21, 24}},
			SuperOffPeak: []Window{{0, 14}},
		},
		SpecialMonths:       []time.Month{time.March, time.April},
		SpecialSuperOffPeak: []Window{{10, 14}},
	}
}

func (s Schedule) day(d types.DayType) DaySchedule {
	if d == types.DayWeekendOrHoliday {
		return s.WeekendHoliday
	}
	return s.Weekday
}

// Clone returns a copy that shares no slices with s
func (s Schedule) Clone() Schedule {
	cloneDay := func(d DaySchedule) DaySchedule {
		return DaySchedule{
			OnPeak:       append([]Window(nil), d.OnPeak...),
			OffPeak:      append([]Window(nil), d.OffPeak...),
			SuperOffPeak: append([]Window(nil), d.SuperOffPeak...),
		}
	}
	return Schedule{
		Weekday:             cloneDay(s.Weekday),
		WeekendHoliday:      cloneDay(s.WeekendHoliday),
		SpecialMonths:       append([]time.Month(nil), s.SpecialMonths...),
		SpecialSuperOffPeak: append([]Window(nil), s.SpecialSuperOffPeak...),
	}
}

// Validate checks that no hour is claimed by two windows and that every
// window lies inside the day
func (s Schedule) Validate() error {
	_, err := s.compile()
	return err
}

// periodTable is a compiled Schedule: one period per day type and hour,
// plus the special-month overrides
type periodTable struct {
	hours         [types.NumDayTypes][hoursPerDay]types.TariffPeriod
	specialMonths [13]bool
	specialHours  [hoursPerDay]bool
}

func (s Schedule) compile() (*periodTable, error) {
	pt := &periodTable{}

	for _, d := range types.DayTypes() {
		var claimed [hoursPerDay]bool
		for h := range pt.hours[d] {
			pt.hours[d][h] = types.PeriodOffPeak
		}
		for _, p := range types.Periods() {
			for _, w := range s.day(d).windows(p) {
				if err := checkWindow(w); err != nil {
					return nil, fmt.Errorf("%s %s: %w", d, p, err)
				}
				for h := w.Start; h < w.End; h++ {
					if claimed[h] {
						return nil, fmt.Errorf("%s hour %d claimed by more than one window (%s %s)", d, h, p, w)
					}
					claimed[h] = true
					pt.hours[d][h] = p
				}
			}
		}

		if d != types.DayWeekday {
			continue
		}
		for _, w := range s.SpecialSuperOffPeak {
			if err := checkWindow(w); err != nil {
				return nil, fmt.Errorf("special super_off_peak: %w", err)
			}
			for h := w.Start; h < w.End; h++ {
				if claimed[h] || pt.specialHours[h] {
					return nil, fmt.Errorf("special super_off_peak hour %d already claimed on weekdays", h)
				}
				pt.specialHours[h] = true
			}
		}
	}

	for _, m := range s.SpecialMonths {
		if m < time.January || m > time.December {
			return nil, fmt.Errorf("invalid special month %d", int(m))
		}
		pt.specialMonths[m] = true
	}
	return pt, nil
}

func checkWindow(w Window) error {
	if w.Start < 0 || w.End > hoursPerDay || w.Start >= w.End {
		return fmt.Errorf("window %s outside 0-24 or empty", w)
	}
	return nil
}

// period maps an hour of day (0-23), month and day type to exactly one
// tariff period
func (pt *periodTable) period(hour int, month time.Month, day types.DayType) types.TariffPeriod {
	if hour < 0 || hour >= hoursPerDay || !day.IsValid() {
		return types.PeriodOffPeak
	}
	if day == types.DayWeekday && pt.specialHours[hour] &&
		month >= time.January && month <= time.December && pt.specialMonths[month] {
		return types.PeriodSuperOffPeak
	}
	return pt.hours[day][hour]
}

var defaultTable = mustCompile(DefaultSchedule())

func mustCompile(s Schedule) *periodTable {
	pt, err := s.compile()
	if err != nil {
		panic(err)
	}
	return pt
}

// PeriodAt maps an hour, month and day type to its period under the
// default TOU-DR schedule
func PeriodAt(hour int, month time.Month, day types.DayType) types.TariffPeriod {
	return defaultTable.period(hour, month, day)
}
