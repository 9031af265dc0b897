// Package metrics exposes the simulation's counters and timings through a
// Prometheus registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph size
	WebNodesTotal prometheus.Gauge
	WebEdgesTotal prometheus.Gauge

	// Step engine
	StepsTotal   prometheus.Counter
	StepDuration prometheus.Histogram
	PulsesTotal  prometheus.Counter

	// Topology churn
	EdgesAddedTotal  prometheus.Counter
	EdgesPrunedTotal prometheus.Counter
	GrowDuration     prometheus.Histogram

	// System
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
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

	r.initSimulationMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
