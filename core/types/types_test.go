package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseNames(t *testing.T) {
	if s, err := ParseSeason(" Summer "); err != nil || s != SeasonSummer {
		t.Errorf("ParseSeason = %s, %v", s, err)
	}
	if p, err := ParsePeriod("Super-Off Peak"); err != nil || p != PeriodSuperOffPeak {
		t.Errorf("ParsePeriod = %s, %v", p, err)
	}
	if d, err := ParseDayType("holiday"); err != nil || d != DayWeekendOrHoliday {
		t.Errorf("ParseDayType = %s, %v", d, err)
	}
	if _, err := ParseDayType("workday"); err == nil {
		t.Error("expected error for unknown day type")
	}
}

func TestDayTypeText(t *testing.T) {
	for _, d := range DayTypes() {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", d, err)
		}
		var got DayType
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if got != d {
			t.Errorf("day type %s came back as %s", d, got)
		}
	}
	if _, err := DayType(7).MarshalText(); err == nil {
		t.Error("expected error marshalling an unknown day type")
	}
}

func TestClassifiedIntervalJSON(t *testing.T) {
	in := ClassifiedInterval{
		UsageInterval: UsageInterval{
			Start:    time.Date(2025, time.July, 4, 10, 0, 0, 0, time.UTC),
			Duration: time.Hour,
			Net:      decimal.RequireFromString("1.5"),
		},
		Season:  SeasonSummer,
		DayType: DayWeekendOrHoliday,
		Period:  PeriodSuperOffPeak,
		Rate:    decimal.RequireFromString("0.45"),
		Cost:    decimal.RequireFromString("0.675"),
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out ClassifiedInterval
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}

	if out.DayType != in.DayType || out.Season != in.Season || out.Period != in.Period {
		t.Errorf("classification = %s/%s/%s", out.Season, out.DayType, out.Period)
	}
	if !out.Start.Equal(in.Start) || !out.Cost.Equal(in.Cost) || !out.Net.Equal(in.Net) {
		t.Errorf("values changed: %+v", out)
	}
}
