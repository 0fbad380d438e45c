// Package metrics exposes Prometheus collectors for the HTTP surface and the
// moderation workflow.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	HTTP       *HTTPMetrics
	Moderation *ModerationMetrics
}

// New creates a registry with Go runtime collectors and the application metrics.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpMetrics, err := NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	moderationMetrics, err := NewModerationMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		HTTP:       httpMetrics,
		Moderation: moderationMetrics,
	}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
