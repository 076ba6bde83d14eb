package pricing

import (
	"github.com/shopspring/decimal"

	"tou-cost/core/types"
)

// Calculator prices metered quantities against a validated rate table.
// It copies the table at construction, so later edits to the caller's
// table never reach an in-flight run.
type Calculator struct {
	table RateTable
}

// NewCalculator validates the table and returns a calculator for it
func NewCalculator(table RateTable) (*Calculator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{table: table}, nil
}

// PriceAndCost returns the unit rate for the pair and netUsage * rate.
// The product is exact; rounding is left to whoever displays it.
func (c *Calculator) PriceAndCost(season types.Season, period types.TariffPeriod, netUsage decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := c.table.Lookup(season, period)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return rate, netUsage.Mul(rate), nil
}

// Table returns a copy of the calculator's rate table
func (c *Calculator) Table() RateTable {
	return c.table
}
