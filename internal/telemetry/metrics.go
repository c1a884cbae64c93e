// Package telemetry exposes Prometheus metrics for the orchestrator.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for caseguard.
// All methods are safe on a nil receiver so wiring stays optional in tests.
type Metrics struct {
	TurnsTotal            prometheus.Counter
	BreachesTotal         *prometheus.CounterVec
	PolicyViolationsTotal *prometheus.CounterVec
	TasksTotal            *prometheus.CounterVec
	DispatchDuration      prometheus.Histogram
	CasesCreatedTotal     prometheus.Counter
	ActiveTasks           prometheus.Gauge
}

// NewMetrics creates and registers the caseguard metrics.
//
// Uses sync.Once so repeated construction (one orchestrator per test, say)
// never trips duplicate-registration panics. All metrics are prefixed with
// "caseguard_".
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caseguard_turns_total",
				Help: "Total number of completed conversation turns",
			}),

			BreachesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "caseguard_breaches_total",
				Help: "Total number of recorded boundary breach events",
			}, []string{"kind"}),

			PolicyViolationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "caseguard_policy_violations_total",
				Help: "Total number of drafts rewritten by the content firewall",
			}, []string{"category"}),

			TasksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "caseguard_tasks_total",
				Help: "Total number of dispatched tasks by terminal status",
			}, []string{"status"}),

			DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "caseguard_dispatch_duration_seconds",
				Help:    "Duration of specialist task execution in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			}),

			CasesCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "caseguard_cases_created_total",
				Help: "Total number of cases created",
			}),

			ActiveTasks: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "caseguard_active_tasks",
				Help: "Number of tasks currently in flight",
			}),
		}
	})
	return globalMetrics
}

// RecordTurn records a completed conversation turn.
func (m *Metrics) RecordTurn() {
	if m == nil {
		return
	}
	m.TurnsTotal.Inc()
}

// RecordBreach records a breach event by kind.
func (m *Metrics) RecordBreach(kind string) {
	if m == nil {
		return
	}
	m.BreachesTotal.WithLabelValues(kind).Inc()
}

// RecordPolicyViolation records a firewall rewrite by phrase category.
func (m *Metrics) RecordPolicyViolation(category string) {
	if m == nil {
		return
	}
	m.PolicyViolationsTotal.WithLabelValues(category).Inc()
}

// RecordTask records a task reaching a terminal status, with its duration.
func (m *Metrics) RecordTask(status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.TasksTotal.WithLabelValues(status).Inc()
	m.DispatchDuration.Observe(durationSeconds)
}

// RecordCaseCreated records a new case.
func (m *Metrics) RecordCaseCreated() {
	if m == nil {
		return
	}
	m.CasesCreatedTotal.Inc()
}

// TaskStarted and TaskFinished track the in-flight gauge.
func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.ActiveTasks.Inc()
}

func (m *Metrics) TaskFinished() {
	if m == nil {
		return
	}
	m.ActiveTasks.Dec()
}
