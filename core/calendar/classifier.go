package calendar

import (
	"fmt"
	"time"

	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
)

// DefaultSummerMonths is the TOU-DR summer season, June 1 through October 31
var DefaultSummerMonths = []time.Month{time.June, time.July, time.August, time.September, time.October}

// Classification is the full calendar context of one timestamp
type Classification struct {
	Season  types.Season
	DayType types.DayType
	Period  types.TariffPeriod
}

// Classifier maps timestamps to tariff periods. It holds only read-only
// data after construction and is safe for concurrent use.
type Classifier struct {
	holidays HolidaySet
	summer   [13]bool // indexed by time.Month
	location *time.Location
	periods  *periodTable
}

// Option configures a Classifier
type Option func(*Classifier) error

// WithSummerMonths overrides the months billed at summer rates
func WithSummerMonths(months ...time.Month) Option {
	return func(c *Classifier) error {
		if len(months) == 0 {
			return fmt.Errorf("summer months must not be empty")
		}
		var summer [13]bool
		for _, m := range months {
			if m < time.January || m > time.December {
				return fmt.Errorf("invalid summer month %d", int(m))
			}
			if summer[m] {
				return fmt.Errorf("summer month %s listed twice", m)
			}
			summer[m] = true
		}
		c.summer = summer
		return nil
	}
}

// WithLocation reads hour, month and weekday in loc instead of the
// timestamp's own location
func WithLocation(loc *time.Location) Option {
	return func(c *Classifier) error {
		c.location = loc
		return nil
	}
}

// WithSchedule replaces the default TOU-DR hour layout
func WithSchedule(s Schedule) Option {
	return func(c *Classifier) error {
		pt, err := s.compile()
		if err != nil {
			return err
		}
		c.periods = pt
		return nil
	}
}

// NewClassifier creates a classifier for the given holidays
func NewClassifier(holidays HolidaySet, opts ...Option) (*Classifier, error) {
	c := &Classifier{holidays: holidays, periods: defaultTable}
	for _, m := range DefaultSummerMonths {
		c.summer[m] = true
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, terrors.Config("invalid calendar configuration", err)
		}
	}
	return c, nil
}

// Classify returns the season and tariff period of the hour t starts in
func (c *Classifier) Classify(t time.Time) (types.Season, types.TariffPeriod, error) {
	cl, err := c.ClassifyDetail(t)
	if err != nil {
		return 0, 0, err
	}
	return cl.Season, cl.Period, nil
}

// ClassifyDetail is Classify plus the day type that selected the schedule
func (c *Classifier) ClassifyDetail(t time.Time) (Classification, error) {
	if t.IsZero() {
		return Classification{}, terrors.InvalidTimestamp("timestamp is not set")
	}
	if c.location != nil {
		t = t.In(c.location)
	}

	day := c.DayTypeOf(t)
	return Classification{
		Season:  c.SeasonOf(t.Month()),
		DayType: day,
		Period:  c.PeriodOf(t.Hour(), t.Month(), day),
	}, nil
}

// PeriodOf maps an hour, month and day type to its period under the
// classifier's schedule
func (c *Classifier) PeriodOf(hour int, month time.Month, day types.DayType) types.TariffPeriod {
	return c.periods.period(hour, month, day)
}

// SeasonOf returns the season a calendar month is billed in
func (c *Classifier) SeasonOf(m time.Month) types.Season {
	if m >= time.January && m <= time.December && c.summer[m] {
		return types.SeasonSummer
	}
	return types.SeasonWinter
}

// DayTypeOf returns whether t falls on a weekday or on a weekend/holiday.
// t is read in its own location; Classify converts it first when the
// classifier has one.
func (c *Classifier) DayTypeOf(t time.Time) types.DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return types.DayWeekendOrHoliday
	}
	if c.holidays.ContainsTime(t) {
		return types.DayWeekendOrHoliday
	}
	return types.DayWeekday
}

// Holidays returns the holiday set the classifier was built with
func (c *Classifier) Holidays() HolidaySet {
	return c.holidays
}

// SummerMonths returns the summer months in calendar order
func (c *Classifier) SummerMonths() []time.Month {
	var out []time.Month
	for m := time.January; m <= time.December; m++ {
		if c.summer[m] {
			out = append(out, m)
		}
	}
	return out
}
