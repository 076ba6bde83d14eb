package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRecordAfterInit(t *testing.T) {
	// Before Init every helper must be safe to call.
	IncInterval("summer", "on_peak")
	IncIntervalError("INVALID_TIMESTAMP")
	ObserveSource("", time.Millisecond)

	reg := prometheus.NewRegistry()
	Init(reg)

	IncInterval("summer", "on_peak")
	IncInterval("summer", "on_peak")
	IncInterval("winter", "super_off_peak")
	IncIntervalError("")
	ObserveSource(ResultSuccess, 20*time.Millisecond)
	ObserveRun(ResultPartial, time.Second)
	IncTariffReload(ResultError)

	if got := testutil.ToFloat64(intervalsTotal.WithLabelValues("summer", "on_peak")); got != 2 {
		t.Errorf("summer/on_peak = %v, want 2", got)
	}
	if got := testutil.ToFloat64(intervalsTotal.WithLabelValues("winter", "super_off_peak")); got != 1 {
		t.Errorf("winter/super_off_peak = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rowErrorsTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sourceTotal.WithLabelValues(ResultSuccess)); got != 1 {
		t.Errorf("sources = %v, want 1", got)
	}
	if got := testutil.ToFloat64(runTotal.WithLabelValues(ResultPartial)); got != 1 {
		t.Errorf("partial runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(tariffReloadTotal.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("failed reloads = %v, want 1", got)
	}

	// A second Init is ignored rather than panicking on duplicate registration.
	Init(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected metric families registered on the supplied registry")
	}
}
