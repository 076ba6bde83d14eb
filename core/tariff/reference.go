package tariff

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"tou-cost/core/calendar"
	"tou-cost/core/types"
)

// ReferenceTOUDR2025 returns the SDG&E TOU-DR schedule with rates as of
// June 2025 and the holidays published for calendar year 2025. It panics
// if the built-in table is incomplete.
func ReferenceTOUDR2025() *Tariff {
	t := &Tariff{
		Name:     "SDG&E TOU-DR",
		Currency: types.CurrencyUSD,
		Holidays: calendar.NewHolidaySet(
			civil.Date{Year: 2025, Month: time.January, Day: 1},
			civil.Date{Year: 2025, Month: time.February, Day: 17},
			civil.Date{Year: 2025, Month: time.May, Day: 26},
			civil.Date{Year: 2025, Month: time.July, Day: 4},
			civil.Date{Year: 2025, Month: time.September, Day: 1},
			civil.Date{Year: 2025, Month: time.November, Day: 11},
			civil.Date{Year: 2025, Month: time.November, Day: 27},
			civil.Date{Year: 2025, Month: time.December, Day: 25},
		),
	}

	return mustTariff(t, []rateEntry{
		{types.SeasonSummer, types.PeriodOnPeak, "0.59908"},
		{types.SeasonSummer, types.PeriodOffPeak, "0.52754"},
		{types.SeasonSummer, types.PeriodSuperOffPeak, "0.45000"},
		{types.SeasonWinter, types.PeriodOnPeak, "0.58155"},
		{types.SeasonWinter, types.PeriodOffPeak, "0.51899"},
		{types.SeasonWinter, types.PeriodSuperOffPeak, "0.50084"},
	})
}

type rateEntry struct {
	season types.Season
	period types.TariffPeriod
	price  string
}

// mustTariff fills t's rate table and validates the result, panicking on
// any error. Only for tariffs compiled into the binary.
func mustTariff(t *Tariff, rates []rateEntry) *Tariff {
	for _, r := range rates {
		if err := t.Rates.Set(r.season, r.period, decimal.RequireFromString(r.price)); err != nil {
			panic(err)
		}
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}
