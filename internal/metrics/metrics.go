package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry so that tests
// and multiple servers in one process never collide.
type Metrics struct {
	Registry *prometheus.Registry

	// RobotsAdded counts successful creates.
	RobotsAdded prometheus.Counter

	// RequestDuration observes handler wall-clock time for every request.
	RequestDuration prometheus.Histogram
}

// New creates and registers the collectors, including the Go runtime and
// process collectors the default registry would carry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RobotsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "robots_added_total",
			Help: "Total number of robots added",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.Registry.MustRegister(
		m.RobotsAdded,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
