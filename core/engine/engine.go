// Package engine prices usage intervals against a tariff: classify each
// interval, look up its rate and compute its cost.
package engine

import (
	"tou-cost/core/calendar"
	"tou-cost/core/determinism"
	"tou-cost/core/pricing"
	"tou-cost/core/tariff"
	"tou-cost/core/types"
	terrors "tou-cost/internal/errors"
	"tou-cost/internal/metrics"
)

// Engine prices intervals for one tariff snapshot. It is read-only after
// New and safe for concurrent use.
type Engine struct {
	tariff      *tariff.Tariff
	classifier  *calendar.Classifier
	calculator  *pricing.Calculator
	fingerprint determinism.ContentHash
}

// New validates the tariff and builds an engine over a private copy of it.
// An incomplete rate table fails here, before any interval is priced.
func New(t *tariff.Tariff) (*Engine, error) {
	if t == nil {
		return nil, terrors.New(terrors.TypeConfig, "tariff is nil")
	}
	snapshot := t.Clone()

	calculator, err := snapshot.Calculator()
	if err != nil {
		return nil, err
	}
	classifier, err := snapshot.Classifier()
	if err != nil {
		return nil, err
	}

	return &Engine{
		tariff:      snapshot,
		classifier:  classifier,
		calculator:  calculator,
		fingerprint: snapshot.Fingerprint(),
	}, nil
}

// Price classifies one interval and prices its net usage. On error the
// returned ClassifiedInterval is the zero value.
func (e *Engine) Price(u types.UsageInterval) (types.ClassifiedInterval, error) {
	cl, err := e.classifier.ClassifyDetail(u.Start)
	if err != nil {
		metrics.IncIntervalError(string(terrors.TypeOf(err)))
		return types.ClassifiedInterval{}, err
	}

	rate, cost, err := e.calculator.PriceAndCost(cl.Season, cl.Period, u.Net)
	if err != nil {
		metrics.IncIntervalError(string(terrors.TypeOf(err)))
		return types.ClassifiedInterval{}, err
	}

	metrics.IncInterval(cl.Season.String(), cl.Period.String())
	return types.ClassifiedInterval{
		UsageInterval: u,
		Season:        cl.Season,
		DayType:       cl.DayType,
		Period:        cl.Period,
		Rate:          rate,
		Cost:          cost,
	}, nil
}

// PriceAll prices intervals in order and stops at the first failure.
// The error carries the failing row index.
func (e *Engine) PriceAll(intervals []types.UsageInterval) ([]types.ClassifiedInterval, error) {
	out := make([]types.ClassifiedInterval, 0, len(intervals))
	for i, u := range intervals {
		ci, err := e.Price(u)
		if err != nil {
			return nil, rowError(err, "", i, u)
		}
		out = append(out, ci)
	}
	return out, nil
}

// Tariff returns the engine's tariff snapshot. Callers must not modify it.
func (e *Engine) Tariff() *tariff.Tariff {
	return e.tariff
}

// Fingerprint identifies the tariff snapshot the engine prices with
func (e *Engine) Fingerprint() determinism.ContentHash {
	return e.fingerprint
}

// rowError attaches the row position to a pricing error
func rowError(err error, source string, index int, u types.UsageInterval) error {
	e, ok := terrors.As(err)
	if !ok {
		e = terrors.Internal("pricing interval failed", err)
	}
	if source != "" {
		e.WithContext("source", source)
	}
	e.WithContext("row", index)
	if !u.Start.IsZero() {
		e.WithContext("start", u.Start)
	}
	return e
}
