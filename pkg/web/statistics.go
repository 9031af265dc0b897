package web

import "sync/atomic"

// GetStatistics returns a point-in-time snapshot of the web's counters.
// Counters are accumulated with atomic adds during the parallel fan-outs, so
// the totals are exact regardless of parallelism degree.
func (w *Web) GetStatistics() Statistics {
	return Statistics{
		NodeCount:   atomic.LoadUint64(&w.stats.NodeCount),
		EdgeCount:   atomic.LoadUint64(&w.stats.EdgeCount),
		Steps:       atomic.LoadUint64(&w.stats.Steps),
		PulsesFired: atomic.LoadUint64(&w.stats.PulsesFired),
		EdgesAdded:  atomic.LoadUint64(&w.stats.EdgesAdded),
		EdgesPruned: atomic.LoadUint64(&w.stats.EdgesPruned),
	}
}

// NodeCount returns the number of nodes in the web.
func (w *Web) NodeCount() int {
	return int(atomic.LoadUint64(&w.stats.NodeCount))
}

// EdgeCount returns the number of live edges in the web.
func (w *Web) EdgeCount() int {
	return int(atomic.LoadUint64(&w.stats.EdgeCount))
}

// PulsesFired returns the cumulative number of pulses carried by edges.
func (w *Web) PulsesFired() uint64 {
	return atomic.LoadUint64(&w.stats.PulsesFired)
}

// EdgesAdded returns the cumulative number of edges created by growth.
func (w *Web) EdgesAdded() uint64 {
	return atomic.LoadUint64(&w.stats.EdgesAdded)
}

// EdgesPruned returns the cumulative number of edges removed by health
// pruning.
func (w *Web) EdgesPruned() uint64 {
	return atomic.LoadUint64(&w.stats.EdgesPruned)
}
