package metrics

import "time"

// RecordStep records one completed tick with its duration and the number of
// pulses carried.
func (r *Registry) RecordStep(duration time.Duration, pulses uint64) {
	r.StepsTotal.Inc()
	r.StepDuration.Observe(duration.Seconds())
	if pulses > 0 {
		r.PulsesTotal.Add(float64(pulses))
	}
}

// RecordGrowth records one successful growth batch.
func (r *Registry) RecordGrowth(duration time.Duration, added int) {
	r.GrowDuration.Observe(duration.Seconds())
	r.EdgesAddedTotal.Add(float64(added))
}

// RecordPruned records edges removed by health pruning.
func (r *Registry) RecordPruned(pruned int) {
	r.EdgesPrunedTotal.Add(float64(pruned))
}

// SetGraphSize updates the node/edge gauges.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.WebNodesTotal.Set(float64(nodes))
	r.WebEdgesTotal.Set(float64(edges))
}
