package engine

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors on a private
// registry so tests can create engines without collector name clashes.
type Metrics struct {
	registry *prometheus.Registry

	Frames       prometheus.Counter
	Preemptions  prometheus.Counter
	RenderFaults prometheus.Counter
	Patterns     *prometheus.CounterVec
	Active       prometheus.Gauge
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightnode_frames_total",
			Help: "Frames flushed to the output backend.",
		}),
		Preemptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightnode_preemptions_total",
			Help: "Running patterns replaced by a newer submission.",
		}),
		RenderFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lightnode_render_faults_total",
			Help: "Runs aborted by a generator or backend fault.",
		}),
		Patterns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lightnode_patterns_total",
			Help: "Accepted pattern submissions by kind.",
		}, []string{"kind"}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lightnode_pattern_active",
			Help: "Whether a pattern is currently running (1) or the engine is idle (0).",
		}),
	}

	m.registry.MustRegister(m.Frames, m.Preemptions, m.RenderFaults, m.Patterns, m.Active)
	return m
}

// Handler returns an HTTP handler serving the engine registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
