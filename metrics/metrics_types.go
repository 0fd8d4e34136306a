// Package metrics exposes facility activity as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics of a facility.
type Registry struct {
	// Episode metrics
	EpisodesTotal prometheus.Counter
	TicksTotal    prometheus.Counter
	CurrentTick   prometheus.Gauge

	// Exchange metrics
	TransfersTotal      *prometheus.CounterVec
	TransferredQuantity *prometheus.CounterVec
	TransferFraction    *prometheus.HistogramVec

	// Observation metrics
	Observation *prometheus.GaugeVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})

	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initEpisodeMetrics()
	r.initExchangeMetrics()
	r.initObservationMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
