// Package metrics holds the Prometheus collectors for the conference backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultNoop     = "noop"
	ResultError    = "error"
	ResultRetry    = "retry"
	ResultDropped  = "dropped"
	ResultDeleted  = "deleted"
)

// Metrics tracks registrations, background tasks, cache refreshes and HTTP traffic.
// All methods are safe on a nil receiver so tests can omit metrics entirely.
type Metrics struct {
	Registrations   *prometheus.CounterVec
	Tasks           *prometheus.CounterVec
	CacheRefreshes  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conference_registrations_total",
			Help: "Registration transactions by action and outcome",
		}, []string{"action", "result"}),
		Tasks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conference_tasks_total",
			Help: "Background task deliveries by task name and outcome",
		}, []string{"task", "result"}),
		CacheRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "conference_cache_refresh_total",
			Help: "Announcement and featured-speaker cache refreshes by entry and outcome",
		}, []string{"entry", "result"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "conference_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncRegistration(action, result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(action, result).Inc()
}

func (m *Metrics) IncTask(task, result string) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues(task, result).Inc()
}

func (m *Metrics) IncCacheRefresh(entry, result string) {
	if m == nil {
		return
	}
	m.CacheRefreshes.WithLabelValues(entry, result).Inc()
}

// ObserveRequest records the duration of a request. Call with time.Now() taken at the start.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
