package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	RuleMissingCharge  = "missing_charge"
	RuleIncorrectRate  = "incorrect_rate"
	RuleUsageMismatch  = "usage_mismatch"
	RuleDuplicateEntry = "duplicate_entry"
)

// DetectionMetrics captures rule engine health signals.
type DetectionMetrics struct {
	scanRuns           prometheus.Counter
	scanDuration       prometheus.Histogram
	ruleDuration       *prometheus.HistogramVec
	incidents          *prometheus.CounterVec
	validationFailures prometheus.Counter
}

var (
	detectionMetricsOnce sync.Once
	detectionMetrics     *DetectionMetrics
)

// Detection returns the singleton detection metrics registry.
func Detection() *DetectionMetrics {
	detectionMetricsOnce.Do(func() {
		detectionMetrics = newDetectionMetrics(prometheus.DefaultRegisterer)
	})
	return detectionMetrics
}

// ResetDetectionMetricsForTest resets the detection metrics singleton for tests.
func ResetDetectionMetricsForTest() {
	detectionMetricsOnce = sync.Once{}
	detectionMetrics = nil
}

func newDetectionMetrics(registerer prometheus.Registerer) *DetectionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	scanRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revlens_detection_scans_total",
		Help: "Detection scans executed.",
	})
	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "revlens_detection_scan_duration_seconds",
		Help:    "Full scan latency across all rules.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
	ruleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revlens_detection_rule_duration_seconds",
		Help:    "Per-rule latency by rule name.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"rule"})
	incidents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revlens_detection_incidents_total",
		Help: "Incidents emitted by type and severity.",
	}, []string{"type", "severity"})
	validationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revlens_detection_validation_failures_total",
		Help: "Snapshots rejected by strict validation.",
	})

	registerer.MustRegister(
		scanRuns,
		scanDuration,
		ruleDuration,
		incidents,
		validationFailures,
	)

	return &DetectionMetrics{
		scanRuns:           scanRuns,
		scanDuration:       scanDuration,
		ruleDuration:       ruleDuration,
		incidents:          incidents,
		validationFailures: validationFailures,
	}
}

// ObserveScan records one completed scan.
func (m *DetectionMetrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.scanRuns.Inc()
	m.scanDuration.Observe(d.Seconds())
}

// ObserveRule records one rule execution.
func (m *DetectionMetrics) ObserveRule(rule string, d time.Duration) {
	if m == nil {
		return
	}
	m.ruleDuration.WithLabelValues(rule).Observe(d.Seconds())
}

// IncIncident counts one emitted incident.
func (m *DetectionMetrics) IncIncident(incidentType, severity string) {
	if m == nil {
		return
	}
	m.incidents.WithLabelValues(incidentType, severity).Inc()
}

// IncValidationFailure counts one rejected snapshot.
func (m *DetectionMetrics) IncValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}
