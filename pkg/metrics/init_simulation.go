package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.WebNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "morass_web_nodes_total",
			Help: "Total number of nodes in the web",
		},
	)

	r.WebEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "morass_web_edges_total",
			Help: "Total number of live edges in the web",
		},
	)

	r.StepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "morass_steps_total",
			Help: "Total number of simulation ticks executed",
		},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "morass_step_duration_seconds",
			Help:    "Tick duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.PulsesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "morass_pulses_total",
			Help: "Total number of pulses carried by edges",
		},
	)

	r.EdgesAddedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "morass_edges_added_total",
			Help: "Total number of edges created by growth",
		},
	)

	r.EdgesPrunedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "morass_edges_pruned_total",
			Help: "Total number of edges removed by health pruning",
		},
	)

	r.GrowDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "morass_grow_duration_seconds",
			Help:    "Growth call duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)
}
