// Package metrics exposes Prometheus counters for pricing runs.
// Every Observe/Inc helper is a no-op until Init has been called.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "tou_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultPartial = "partial"
)

var (
	registerOnce sync.Once

	intervalsTotal *prometheus.CounterVec
	rowErrorsTotal *prometheus.CounterVec

	sourceTotal   *prometheus.CounterVec
	sourceLatency *prometheus.HistogramVec

	runTotal   *prometheus.CounterVec
	runLatency *prometheus.HistogramVec

	tariffReloadTotal *prometheus.CounterVec
)

// Init registers pricing metrics with reg, or with the default registerer
// when reg is nil. Only the first call has any effect.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		intervalsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "intervals_priced_total",
				Help: "Total usage intervals priced by season and tariff period",
			},
			[]string{"season", "period"},
		)
		rowErrorsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "interval_errors_total",
				Help: "Total usage intervals that failed classification or pricing by error kind",
			},
			[]string{"kind"},
		)
		sourceTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sources_total",
				Help: "Total interval sources (export files) processed by result",
			},
			[]string{"result"},
		)
		sourceLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "source_latency_seconds",
				Help:    "Time to price one interval source in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		runTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total batch runs by result",
			},
			[]string{"result"},
		)
		runLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_latency_seconds",
				Help:    "Batch run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		tariffReloadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "tariff_reloads_total",
				Help: "Total tariff reload attempts by result",
			},
			[]string{"result"},
		)

		reg.MustRegister(
			intervalsTotal,
			rowErrorsTotal,
			sourceTotal,
			sourceLatency,
			runTotal,
			runLatency,
			tariffReloadTotal,
		)
	})
}

// IncInterval counts one priced interval.
func IncInterval(season, period string) {
	if intervalsTotal != nil {
		intervalsTotal.WithLabelValues(season, period).Inc()
	}
}

// IncIntervalError counts one interval that failed.
func IncIntervalError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if rowErrorsTotal != nil {
		rowErrorsTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveSource records the duration and result of pricing one source.
func ObserveSource(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if sourceTotal != nil {
		sourceTotal.WithLabelValues(result).Inc()
	}
	if sourceLatency != nil {
		sourceLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveRun records the duration and result of a batch run.
func ObserveRun(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if runTotal != nil {
		runTotal.WithLabelValues(result).Inc()
	}
	if runLatency != nil {
		runLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncTariffReload counts a tariff reload attempt.
func IncTariffReload(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if tariffReloadTotal != nil {
		tariffReloadTotal.WithLabelValues(result).Inc()
	}
}
