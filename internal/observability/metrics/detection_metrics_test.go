package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDetectionMetricsRecords(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newDetectionMetrics(registry)

	m.ObserveScan(25 * time.Millisecond)
	m.ObserveScan(50 * time.Millisecond)
	m.ObserveRule(RuleMissingCharge, time.Millisecond)
	m.IncIncident("missing_charge", "high")
	m.IncIncident("missing_charge", "high")
	m.IncIncident("duplicate_entry", "high")
	m.IncValidationFailure()

	if got := testutil.ToFloat64(m.scanRuns); got != 2 {
		t.Fatalf("expected 2 scan runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.incidents.WithLabelValues("missing_charge", "high")); got != 2 {
		t.Fatalf("expected 2 missing_charge incidents, got %v", got)
	}
	if got := testutil.ToFloat64(m.incidents.WithLabelValues("duplicate_entry", "high")); got != 1 {
		t.Fatalf("expected 1 duplicate_entry incident, got %v", got)
	}
	if got := testutil.ToFloat64(m.validationFailures); got != 1 {
		t.Fatalf("expected 1 validation failure, got %v", got)
	}
}

func TestDetectionMetricsNilReceiver(t *testing.T) {
	var m *DetectionMetrics
	m.ObserveScan(time.Second)
	m.ObserveRule(RuleUsageMismatch, time.Second)
	m.IncIncident("usage_mismatch", "medium")
	m.IncValidationFailure()
}
