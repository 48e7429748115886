// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crm"

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	assignments      *prometheus.CounterVec
	membershipMisses prometheus.Counter
	filterSelections *prometheus.CounterVec
	filterResets     *prometheus.CounterVec
	dropdownsOpen    prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		assignments: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_assignments_total",
				Help:      "Assignee picker submissions by outcome",
			},
			[]string{"outcome"}, // assigned, skipped, failed
		),
		membershipMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workspace_member_misses_total",
			Help:      "Assignments made without a resolved workspace membership",
		}),
		filterSelections: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "filter_selections_total",
				Help:      "Filter dropdown selections",
			},
			[]string{"kind"}, // set, cleared
		),
		filterResets: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "filter_resets_total",
				Help:      "Filter dropdown resets",
			},
			[]string{"kind"}, // empty, full
		),
		dropdownsOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filter_dropdowns_open",
			Help:      "Filter dropdown instances currently held in memory",
		}),

		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method"},
		),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ---------------------------------------------------------------------------
// Assignee picker
// ---------------------------------------------------------------------------

func (m *Metrics) Assignment(outcome string) {
	m.assignments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MembershipMiss() {
	m.membershipMisses.Inc()
}

// ---------------------------------------------------------------------------
// Filter dropdowns
// ---------------------------------------------------------------------------

func (m *Metrics) FilterSelected(cleared bool) {
	kind := "set"
	if cleared {
		kind = "cleared"
	}
	m.filterSelections.WithLabelValues(kind).Inc()
}

func (m *Metrics) FilterReset(keepDefinition bool) {
	kind := "full"
	if keepDefinition {
		kind = "empty"
	}
	m.filterResets.WithLabelValues(kind).Inc()
}

func (m *Metrics) DropdownsOpen(n int) {
	m.dropdownsOpen.Set(float64(n))
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
