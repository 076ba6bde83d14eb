package tariff

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"tou-cost/core/calendar"
	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
)

// Format is a tariff file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", terrors.Newf(terrors.TypeConfig, "cannot infer tariff format from %q", path)
	}
}

// ParseFormat parses a format name; an empty name means "infer from path"
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatHCL, "":
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", terrors.Newf(terrors.TypeConfig, "unknown tariff format %q", name)
	}
}

// Load reads and validates a tariff file, inferring the format from its extension
func Load(path string) (*Tariff, error) {
	return LoadFormat(path, "")
}

// LoadFormat reads and validates a tariff file in the given format
func LoadFormat(path string, format Format) (*Tariff, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, terrors.Config("cannot read tariff file", err).WithContext("path", path)
	}

	t, err := decode(data, format, filepath.Base(path))
	if err != nil {
		if e, ok := terrors.As(err); ok {
			e.WithContext("path", path)
		}
		return nil, err
	}
	return t, nil
}

// Decode parses and validates a tariff document
func Decode(data []byte, format Format) (*Tariff, error) {
	return decode(data, format, "tariff."+string(format))
}

func decode(data []byte, format Format, filename string) (*Tariff, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, terrors.Parsing("invalid JSON tariff", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, terrors.Parsing("invalid YAML tariff", err)
		}
	case FormatHCL:
		d, err := decodeHCL(data, filename)
		if err != nil {
			return nil, err
		}
		doc = d
	default:
		return nil, terrors.Newf(terrors.TypeConfig, "unknown tariff format %q", format)
	}

	t, err := doc.toTariff()
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// document is the format-neutral shape of a tariff file:
//
//	name: SDG&E TOU-DR
//	currency: USD
//	timezone: America/Los_Angeles
//	summer_months: [6, 7, 8, 9, 10]
//	rates:
//	  summer: {on_peak: 0.59908, off_peak: 0.52754, super_off_peak: 0.45}
//	  winter: {on_peak: 0.58155, off_peak: 0.51899, super_off_peak: 0.50084}
//	holidays: [2025-01-01, 7/4/2025]
//	schedule:
//	  weekday:         {on_peak: [[16, 21]], super_off_peak: [[0, 6]]}
//	  weekend_holiday: {on_peak: [[16, 21]], super_off_peak: [[0, 14]]}
//	  special:         {months: [3, 4], super_off_peak: [[10, 14]]}
type document struct {
	Name         string                      `json:"name" yaml:"name"`
	Currency     string                      `json:"currency" yaml:"currency"`
	Timezone     string                      `json:"timezone" yaml:"timezone"`
	SummerMonths []int                       `json:"summer_months" yaml:"summer_months"`
	Rates        map[string]map[string]price `json:"rates" yaml:"rates"`
	Holidays     []string                    `json:"holidays" yaml:"holidays"`
	Schedule     *scheduleDocument           `json:"schedule" yaml:"schedule"`
}

// scheduleDocument is the hour layout shared by every format. Windows are
// [start, end) hour pairs. Omitting it selects the TOU-DR layout.
type scheduleDocument struct {
	Weekday        *dayDocument     `json:"weekday" yaml:"weekday" hcl:"weekday,block"`
	WeekendHoliday *dayDocument     `json:"weekend_holiday" yaml:"weekend_holiday" hcl:"weekend_holiday,block"`
	Special        *specialDocument `json:"special" yaml:"special" hcl:"special,block"`
}

type dayDocument struct {
	OnPeak       [][]int `json:"on_peak" yaml:"on_peak" hcl:"on_peak,optional"`
	OffPeak      [][]int `json:"off_peak" yaml:"off_peak" hcl:"off_peak,optional"`
	SuperOffPeak [][]int `json:"super_off_peak" yaml:"super_off_peak" hcl:"super_off_peak,optional"`
}

type specialDocument struct {
	Months       []int   `json:"months" yaml:"months" hcl:"months,optional"`
	SuperOffPeak [][]int `json:"super_off_peak" yaml:"super_off_peak" hcl:"super_off_peak,optional"`
}

func (sd *scheduleDocument) toSchedule() (*calendar.Schedule, error) {
	if sd.Weekday == nil || sd.WeekendHoliday == nil {
		return nil, configError("schedule needs both weekday and weekend_holiday")
	}

	var s calendar.Schedule
	var err error
	if s.Weekday, err = sd.Weekday.toDay(types.DayWeekday); err != nil {
		return nil, err
	}
	if s.WeekendHoliday, err = sd.WeekendHoliday.toDay(types.DayWeekendOrHoliday); err != nil {
		return nil, err
	}
	if sd.Special != nil {
		for _, m := range sd.Special.Months {
			if m < 1 || m > 12 {
				return nil, configError("special month %d out of range 1-12", m)
			}
			s.SpecialMonths = append(s.SpecialMonths, time.Month(m))
		}
		if s.SpecialSuperOffPeak, err = toWindows("special super_off_peak", sd.Special.SuperOffPeak); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (dd *dayDocument) toDay(d types.DayType) (calendar.DaySchedule, error) {
	var out calendar.DaySchedule
	var err error
	if out.OnPeak, err = toWindows(d.String()+" on_peak", dd.OnPeak); err != nil {
		return out, err
	}
	if out.OffPeak, err = toWindows(d.String()+" off_peak", dd.OffPeak); err != nil {
		return out, err
	}
	out.SuperOffPeak, err = toWindows(d.String()+" super_off_peak", dd.SuperOffPeak)
	return out, err
}

func toWindows(what string, pairs [][]int) ([]calendar.Window, error) {
	out := make([]calendar.Window, 0, len(pairs))
	for _, p := range pairs {
		if len(p) != 2 {
			return nil, terrors.Newf(terrors.TypeParsing, "%s: window %v must be a [start, end] pair", what, p)
		}
		out = append(out, calendar.Window{Start: p[0], End: p[1]})
	}
	return out, nil
}

// price keeps the literal text of a rate so it reaches decimal parsing
// without a trip through float64. Quoted and bare numbers are both accepted.
type price string

func (p *price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("price must not be null")
	}
	*p = price(strings.Trim(s, `"`))
	return nil
}

func (p *price) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a scalar", node.Line)
	}
	*p = price(node.Value)
	return nil
}

func (d document) toTariff() (*Tariff, error) {
	t := &Tariff{
		Name:     strings.TrimSpace(d.Name),
		Currency: types.Currency(strings.ToUpper(strings.TrimSpace(d.Currency))),
	}
	if t.Currency == "" {
		t.Currency = types.CurrencyUSD
	}

	if tz := strings.TrimSpace(d.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, terrors.Config(fmt.Sprintf("unknown timezone %q", tz), err)
		}
		t.Location = loc
	}

	for _, m := range d.SummerMonths {
		if m < 1 || m > 12 {
			return nil, configError("summer month %d out of range 1-12", m)
		}
		t.SummerMonths = append(t.SummerMonths, time.Month(m))
	}

	holidays, err := calendar.ParseHolidays(d.Holidays)
	if err != nil {
		return nil, terrors.Parsing("invalid holiday list", err)
	}
	t.Holidays = holidays

	if d.Schedule != nil {
		schedule, err := d.Schedule.toSchedule()
		if err != nil {
			return nil, err
		}
		t.Schedule = schedule
	}

	// Sorted so aliased keys ("on_peak", "on-peak") fail the same way on every run.
	for _, seasonName := range slices.Sorted(maps.Keys(d.Rates)) {
		season, err := types.ParseSeason(seasonName)
		if err != nil {
			return nil, terrors.Parsing("invalid rate table", err)
		}
		byPeriod := d.Rates[seasonName]
		for _, periodName := range slices.Sorted(maps.Keys(byPeriod)) {
			period, err := types.ParsePeriod(periodName)
			if err != nil {
				return nil, terrors.Parsing("invalid rate table", err)
			}
			if t.Rates.Has(season, period) {
				return nil, terrors.Newf(terrors.TypeParsing, "rate for %s/%s given more than once", season, period)
			}
			if err := t.Rates.SetString(season, period, string(byPeriod[periodName])); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// hclDocument is the HCL rendition of document:
//
//	name     = "SDG&E TOU-DR"
//	holidays = ["2025-01-01", "2025-07-04"]
//
//	season "summer" {
//	  on_peak        = "0.59908"
//	  off_peak       = "0.52754"
//	  super_off_peak = "0.45"
//	}
//
//	schedule {
//	  weekday {
//	    on_peak        = [[16, 21]]
//	    super_off_peak = [[0, 6]]
//	  }
//	  weekend_holiday { ... }
//	  special {
//	    months         = [3, 4]
//	    super_off_peak = [[10, 14]]
//	  }
//	}
type hclDocument struct {
	Name         string            `hcl:"name,optional"`
	Currency     string            `hcl:"currency,optional"`
	Timezone     string            `hcl:"timezone,optional"`
	SummerMonths []int             `hcl:"summer_months,optional"`
	Holidays     []string          `hcl:"holidays,optional"`
	Seasons      []hclSeason       `hcl:"season,block"`
	Schedule     *scheduleDocument `hcl:"schedule,block"`
}

type hclSeason struct {
	Name         string `hcl:"name,label"`
	OnPeak       string `hcl:"on_peak,optional"`
	OffPeak      string `hcl:"off_peak,optional"`
	SuperOffPeak string `hcl:"super_off_peak,optional"`
}

func decodeHCL(data []byte, filename string) (document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return document{}, terrors.Parsing("invalid HCL tariff", diags)
	}

	var raw hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return document{}, terrors.Parsing("invalid HCL tariff", diags)
	}

	doc := document{
		Name:         raw.Name,
		Currency:     raw.Currency,
		Timezone:     raw.Timezone,
		SummerMonths: raw.SummerMonths,
		Holidays:     raw.Holidays,
		Schedule:     raw.Schedule,
		Rates:        make(map[string]map[string]price, len(raw.Seasons)),
	}
	for _, s := range raw.Seasons {
		if _, dup := doc.Rates[s.Name]; dup {
			return document{}, terrors.Newf(terrors.TypeParsing, "season %q declared twice", s.Name)
		}
		byPeriod := map[string]price{}
		for name, value := range map[string]string{
			types.PeriodOnPeak.String():       s.OnPeak,
			types.PeriodOffPeak.String():      s.OffPeak,
			types.PeriodSuperOffPeak.String(): s.SuperOffPeak,
		} {
			// Omitted attributes stay missing so validation names them.
			if value != "" {
				byPeriod[name] = price(value)
			}
		}
		doc.Rates[s.Name] = byPeriod
	}
	return doc, nil
}
