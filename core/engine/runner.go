package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tou-cost/core/tariff"
	"tou-cost/core/types"
	"tou-cost/internal/config"
	terrors "tou-cost/internal/errors"
	"tou-cost/internal/logging"
	"tou-cost/internal/metrics"
)

// cancelCheckEvery is how many rows are priced between context checks
const cancelCheckEvery = 512

// ErrorPolicy decides what a run does with a row that cannot be priced
type ErrorPolicy int

const (
	// ErrorPolicyAbort fails the whole run on the first bad row
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicySkip records the bad row on its source report and continues
	ErrorPolicySkip
)

// String returns the policy name
func (p ErrorPolicy) String() string {
	if p == ErrorPolicySkip {
		return config.ErrorPolicySkip
	}
	return config.ErrorPolicyAbort
}

// ParseErrorPolicy parses "abort" or "skip"; empty means abort
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", config.ErrorPolicyAbort:
		return ErrorPolicyAbort, nil
	case config.ErrorPolicySkip:
		return ErrorPolicySkip, nil
	default:
		return ErrorPolicyAbort, terrors.Newf(terrors.TypeConfig, "unknown error policy %q", name)
	}
}

// TariffSource hands out the tariff a run should price with.
// *tariff.Store satisfies it.
type TariffSource interface {
	Current() *tariff.Tariff
}

// Source is one ordered sequence of intervals, typically one export file
type Source struct {
	Name      string
	Intervals []types.UsageInterval
}

// SkippedRow is a row left out of a source report under ErrorPolicySkip
type SkippedRow struct {
	Index int
	Start time.Time
	Err   error
}

// SourceReport is the priced form of one Source. Rows keep input order.
type SourceReport struct {
	Name    string
	Rows    []types.ClassifiedInterval
	Skipped []SkippedRow
	Summary types.Summary
}

// Report is the outcome of one run
type Report struct {
	RunID       string
	Tariff      string
	Currency    types.Currency
	Fingerprint string
	Sources     []SourceReport
	Total       types.Summary
	Skipped     int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Partial reports whether any row was skipped
func (r *Report) Partial() bool {
	return r.Skipped > 0
}

// Source returns the report for the named source
func (r *Report) Source(name string) (SourceReport, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceReport{}, false
}

// Runner prices batches of sources. Each Run takes one tariff snapshot at
// its start, so publishing a new tariff never affects a run in progress.
type Runner struct {
	tariffs TariffSource
	workers int
	policy  ErrorPolicy
	places  int32
	logger  *zap.Logger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithWorkers sets how many sources are priced concurrently
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithErrorPolicy sets the row error policy
func WithErrorPolicy(p ErrorPolicy) RunnerOption {
	return func(r *Runner) { r.policy = p }
}

// WithDisplayPlaces sets the rounding used for logged totals
func WithDisplayPlaces(places int32) RunnerOption {
	return func(r *Runner) { r.places = places }
}

// WithLogger sets the run logger
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner pricing with whatever tariffs currently holds
func NewRunner(tariffs TariffSource, opts ...RunnerOption) *Runner {
	r := &Runner{
		tariffs: tariffs,
		workers: 1,
		policy:  ErrorPolicyAbort,
		places:  2,
		logger:  logging.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// FromConfig loads the configured tariff into a store and builds a runner
// over it. The store is returned so callers can reload it between runs.
func FromConfig(cfg *config.Config) (*Runner, *tariff.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	policy, err := ParseErrorPolicy(cfg.Batch.ErrorPolicy)
	if err != nil {
		return nil, nil, err
	}

	t := tariff.ReferenceTOUDR2025()
	if cfg.Tariff.Path != "" {
		format, err := tariff.ParseFormat(cfg.Tariff.Format)
		if err != nil {
			return nil, nil, err
		}
		if t, err = tariff.LoadFormat(cfg.Tariff.Path, format); err != nil {
			return nil, nil, err
		}
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	store, err := tariff.NewStore(t, tariff.WithStoreLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	if cfg.Metrics.Enabled {
		metrics.Init(nil)
	}

	runner := NewRunner(store,
		WithWorkers(cfg.Batch.Workers),
		WithErrorPolicy(policy),
		WithDisplayPlaces(cfg.Output.DisplayPlaces),
		WithLogger(logger),
	)
	return runner, store, nil
}

// Run prices every source. Sources are processed concurrently up to the
// worker limit; rows within a source are priced in order. Under
// ErrorPolicyAbort the first bad row cancels the run and is returned.
func (r *Runner) Run(ctx context.Context, sources []Source) (*Report, error) {
	started := time.Now()

	var snapshot *tariff.Tariff
	if r.tariffs != nil {
		snapshot = r.tariffs.Current()
	}
	eng, err := New(snapshot)
	if err != nil {
		metrics.ObserveRun(metrics.ResultError, time.Since(started))
		return nil, err
	}

	report := &Report{
		RunID:       uuid.NewString(),
		Tariff:      eng.Tariff().Name,
		Currency:    eng.Tariff().Currency,
		Fingerprint: eng.Fingerprint().Hex(),
		Sources:     make([]SourceReport, len(sources)),
		StartedAt:   started,
	}
	log := r.logger.With(
		zap.String("run_id", report.RunID),
		zap.String("tariff", report.Tariff),
		zap.String("policy", r.policy.String()),
	)
	log.Debug("run started", zap.Int("sources", len(sources)), zap.Int("workers", r.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range sources {
		g.Go(func() error {
			sr, err := r.runSource(gctx, eng, sources[i], log)
			if err != nil {
				return err
			}
			report.Sources[i] = sr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ObserveRun(metrics.ResultError, time.Since(started))
		log.Error("run failed", zap.Error(err))
		return nil, err
	}

	for _, sr := range report.Sources {
		report.Total.Merge(sr.Summary)
		report.Skipped += len(sr.Skipped)
	}
	report.FinishedAt = time.Now()

	result := metrics.ResultSuccess
	if report.Partial() {
		result = metrics.ResultPartial
	}
	metrics.ObserveRun(result, report.FinishedAt.Sub(started))

	total := report.Total.Rounded(r.places).Total
	log.Info("run complete",
		zap.Int("sources", len(report.Sources)),
		zap.Int("records", total.Records),
		zap.Int("skipped", report.Skipped),
		zap.String("usage", total.Usage.StringFixed(r.places)),
		zap.String("cost", total.Cost.StringFixed(r.places)),
		zap.String("currency", report.Currency.String()),
		zap.Duration("elapsed", report.FinishedAt.Sub(started)),
	)
	return report, nil
}

func (r *Runner) runSource(ctx context.Context, eng *Engine, src Source, log *zap.Logger) (SourceReport, error) {
	started := time.Now()
	sr := SourceReport{
		Name: src.Name,
		Rows: make([]types.ClassifiedInterval, 0, len(src.Intervals)),
	}

	for i, u := range src.Intervals {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				metrics.ObserveSource(metrics.ResultError, time.Since(started))
				return SourceReport{}, err
			}
		}

		ci, err := eng.Price(u)
		if err != nil {
			err = rowError(err, src.Name, i, u)
			if r.policy == ErrorPolicyAbort {
				metrics.ObserveSource(metrics.ResultError, time.Since(started))
				return SourceReport{}, err
			}
			sr.Skipped = append(sr.Skipped, SkippedRow{Index: i, Start: u.Start, Err: err})
			log.Warn("row skipped",
				zap.String("source", src.Name),
				zap.Int("row", i),
				zap.Error(err),
			)
			continue
		}
		sr.Rows = append(sr.Rows, ci)
		sr.Summary.Add(ci)
	}

	result := metrics.ResultSuccess
	if len(sr.Skipped) > 0 {
		result = metrics.ResultPartial
	}
	metrics.ObserveSource(result, time.Since(started))

	total := sr.Summary.Rounded(r.places).Total
	log.Info("source priced",
		zap.String("source", src.Name),
		zap.Int("records", total.Records),
		zap.Int("skipped", len(sr.Skipped)),
		zap.String("usage", total.Usage.StringFixed(r.places)),
		zap.String("cost", total.Cost.StringFixed(r.places)),
	)
	return sr, nil
}
