// Package metrics exposes Prometheus collectors for renders, outbound API
// calls and document writes.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Outbound API calls
	OutboundRequests *prometheus.CounterVec
	OutboundLatency  *prometheus.HistogramVec

	// Rendering
	PageRenders    *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	RouteMisses    prometheus.Counter

	// Document store
	DocumentCommands *prometheus.CounterVec
	DocumentReloads  prometheus.Counter

	// Auth and actions
	AuthAttempts  *prometheus.CounterVec
	ActionResults *prometheus.CounterVec
	EditorClients prometheus.Gauge
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	r := &Registry{reg: reg}

	r.OutboundRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "admini_outbound_requests_total",
		Help: "Requests sent to operator-configured APIs",
	}, []string{"method", "outcome"})

	r.OutboundLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admini_outbound_request_duration_seconds",
		Help:    "Latency of requests sent to operator-configured APIs",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	r.PageRenders = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "admini_page_renders_total",
		Help: "Pages rendered by mode",
	}, []string{"mode"})

	r.RenderDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admini_page_render_duration_seconds",
		Help:    "Time to render a page including data binding",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	r.RouteMisses = factory.NewCounter(prometheus.CounterOpts{
		Name: "admini_route_misses_total",
		Help: "Requests that matched no page",
	})

	r.DocumentCommands = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "admini_document_commands_total",
		Help: "Document commands executed",
	}, []string{"command", "outcome"})

	r.DocumentReloads = factory.NewCounter(prometheus.CounterOpts{
		Name: "admini_document_reloads_total",
		Help: "Document reloads triggered by external edits",
	})

	r.AuthAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "admini_auth_attempts_total",
		Help: "Login attempts by realm and outcome",
	}, []string{"realm", "outcome"})

	r.ActionResults = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "admini_action_results_total",
		Help: "Button, row and form actions by kind and outcome",
	}, []string{"kind", "outcome"})

	r.EditorClients = factory.NewGauge(prometheus.GaugeOpts{
		Name: "admini_editor_clients",
		Help: "Connected editor live-reload clients",
	})

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Outcome collapses an error into a metric label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
