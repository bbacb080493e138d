package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RunsTotal          prometheus.Counter
	RunFailuresTotal   prometheus.Counter
	QualityIssuesTotal *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datagov_pipeline_runs_total",
			Help: "Total number of pipeline runs started",
		}),
		RunFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datagov_pipeline_run_failures_total",
			Help: "Total number of pipeline runs that aborted",
		}),
		QualityIssuesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datagov_quality_issues_total",
			Help: "Quality issues found, by dataset and severity",
		}, []string{"dataset", "severity"}),
		ValidationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "datagov_validation_duration_seconds",
			Help:    "Time spent validating one dataset",
			Buckets: prometheus.DefBuckets,
		}, []string{"dataset"}),
	}
}

// IncRuns counts a started run.
func (m *Metrics) IncRuns() {
	m.RunsTotal.Inc()
}

// IncRunFailures counts an aborted run.
func (m *Metrics) IncRunFailures() {
	m.RunFailuresTotal.Inc()
}

// IncQualityIssue counts one detected issue.
func (m *Metrics) IncQualityIssue(dataset, severity string) {
	m.QualityIssuesTotal.WithLabelValues(dataset, severity).Inc()
}

// ObserveValidation records the validation duration for a dataset.
func (m *Metrics) ObserveValidation(dataset string, seconds float64) {
	m.ValidationDuration.WithLabelValues(dataset).Observe(seconds)
}
