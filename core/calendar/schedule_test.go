package calendar

import (
	"testing"
	"time"

	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
)

// flatSchedule bills on-peak 17:00-20:00 every day and super off-peak
// overnight, with a weekday midday window in June only.
func flatSchedule() Schedule {
	return Schedule{
		Weekday: DaySchedule{
			OnPeak:       []Window{{17, 20}},
			SuperOffPeak: []Window{{0, 7}},
		},
		WeekendHoliday: DaySchedule{
			OnPeak:       []Window{{17, 20}},
			SuperOffPeak: []Window{{0, 9}},
		},
		SpecialMonths:       []time.Month{time.June},
		SpecialSuperOffPeak: []Window{{11, 13}},
	}
}

func TestDefaultScheduleIsValid(t *testing.T) {
	if err := DefaultSchedule().Validate(); err != nil {
		t.Fatalf("default schedule invalid: %v", err)
	}
}

func TestCustomSchedule(t *testing.T) {
	c := newClassifier(t, WithSchedule(flatSchedule()))

	tests := []struct {
		hour  int
		month time.Month
		day   types.DayType
		want  types.TariffPeriod
	}{
		{16, time.July, types.DayWeekday, types.PeriodOffPeak},
		{17, time.July, types.DayWeekday, types.PeriodOnPeak},
		{20, time.July, types.DayWeekday, types.PeriodOffPeak},
		{6, time.January, types.DayWeekday, types.PeriodSuperOffPeak},
		{8, time.January, types.DayWeekendOrHoliday, types.PeriodSuperOffPeak},
		{12, time.June, types.DayWeekday, types.PeriodSuperOffPeak},
		{12, time.March, types.DayWeekday, types.PeriodOffPeak},
		{12, time.June, types.DayWeekendOrHoliday, types.PeriodOffPeak},
	}
	for _, tt := range tests {
		if got := c.PeriodOf(tt.hour, tt.month, tt.day); got != tt.want {
			t.Errorf("PeriodOf(%d, %s, %s) = %s, want %s", tt.hour, tt.month, tt.day, got, tt.want)
		}
	}

	// 2025-03-17 11:00 is super off-peak under TOU-DR but not here.
	_, period, err := c.Classify(at(2025, time.March, 17, 11, 0))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if period != types.PeriodOffPeak {
		t.Errorf("period = %s, want off_peak under the custom schedule", period)
	}
}

func TestCustomSchedulePartitionsEveryHour(t *testing.T) {
	c := newClassifier(t, WithSchedule(flatSchedule()))
	for m := time.January; m <= time.December; m++ {
		for _, day := range types.DayTypes() {
			onPeak := 0
			for h := 0; h < 24; h++ {
				p := c.PeriodOf(h, m, day)
				if !p.IsValid() {
					t.Fatalf("%s %s hour %d mapped to invalid period", m, day, h)
				}
				if p == types.PeriodOnPeak {
					onPeak++
				}
			}
			if onPeak != 3 {
				t.Errorf("%s %s: %d on-peak hours, want 3", m, day, onPeak)
			}
		}
	}
}

func TestScheduleRejectsOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schedule)
	}{
		{"periods overlap", func(s *Schedule) { s.Weekday.OffPeak = []Window{{15, 18}} }},
		{"same period twice", func(s *Schedule) { s.WeekendHoliday.SuperOffPeak = []Window{{0, 9}, {8, 10}} }},
		{"special over base window", func(s *Schedule) { s.SpecialSuperOffPeak = []Window{{5, 8}} }},
		{"window past midnight", func(s *Schedule) { s.Weekday.OnPeak = []Window{{22, 25}} }},
		{"empty window", func(s *Schedule) { s.Weekday.OnPeak = []Window{{17, 17}} }},
		{"bad special month", func(s *Schedule) { s.SpecialMonths = []time.Month{0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := flatSchedule()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
			if _, err := NewClassifier(NewHolidaySet(), WithSchedule(s)); !terrors.IsType(err, terrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestScheduleCloneIsIndependent(t *testing.T) {
	s := DefaultSchedule()
	c := s.Clone()
	c.Weekday.OnPeak[0] = Window{Start: 15, End: 21}
	c.SpecialMonths[0] = time.May

	if s.Weekday.OnPeak[0] != (Window{Start: 16, End: 21}) || s.SpecialMonths[0] != time.March {
		t.Error("clone shares slices with the original")
	}
}
