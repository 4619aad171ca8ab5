package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/james-s-tayler/xunit/types"
)

const (
	MetricsNamespace = "xunit"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of completed runs",
	}, []string{
		"status",
	})

	moduleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "module_results",
		Help:      "Per-module test outcome counts",
	}, []string{
		"run_id",
		"module",
		"outcome",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last run",
	}, []string{
		"run_id",
	})

	hardFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "hard_failures_total",
		Help:      "Count of module hard failures",
	})
)

// RecordRun records the terminal status and duration of a run.
func RecordRun(runID string, status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

// RecordModule records a module's final outcome counts.
func RecordModule(runID string, module string, s types.Summary) {
	passed := s.Total - s.Failed - s.Skipped - s.Errored
	moduleResults.WithLabelValues(runID, module, string(types.OutcomePass)).Add(float64(passed))
	moduleResults.WithLabelValues(runID, module, string(types.OutcomeFail)).Add(float64(s.Failed))
	moduleResults.WithLabelValues(runID, module, string(types.OutcomeSkip)).Add(float64(s.Skipped))
	moduleResults.WithLabelValues(runID, module, "error").Add(float64(s.Errored))
}

// RecordHardFailure counts an infrastructure-level module failure.
func RecordHardFailure() {
	hardFailuresTotal.Inc()
}
