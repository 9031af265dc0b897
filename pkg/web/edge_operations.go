package web

import "sync/atomic"

// Connect creates a directed edge from the node at index start to the node at
// index end and registers the unordered pair. It rejects out-of-range
// indices, self-edges and pairs already connected in either orientation.
func (w *Web) Connect(start, end int, spec EdgeSpec) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connectLocked(start, end, spec)
}

func (w *Web) connectLocked(start, end int, spec EdgeSpec) error {
	if start < 0 || start >= len(w.nodes) {
		return nodeNotFoundError("Connect", start)
	}
	if end < 0 || end >= len(w.nodes) {
		return nodeNotFoundError("Connect", end)
	}
	if start == end {
		return &WebError{Op: "Connect", Entity: "pair", Cause: ErrSelfEdge}
	}

	if !w.pairs.TryInsert(w.nodes[start].ID, w.nodes[end].ID) {
		return &WebError{Op: "Connect", Entity: "pair", Cause: ErrDuplicatePair}
	}

	w.edges = append(w.edges, &Edge{
		Start:             start,
		End:               end,
		OutPercentage:     spec.OutPercentage,
		OutFixed:          spec.OutFixed,
		Health:            spec.Health,
		FireWithin:        spec.FireWithin,
		EndNodeFireWithin: spec.EndNodeFireWithin,
	})
	w.nodes[start].OutDegree++

	atomic.AddUint64(&w.stats.EdgeCount, 1)
	if w.registry != nil {
		w.registry.SetGraphSize(len(w.nodes), len(w.edges))
	}
	return nil
}

// randomEdgeSpec draws edge transform parameters uniformly from the
// configured ranges and applies the default health and windows.
func (w *Web) randomEdgeSpec() EdgeSpec {
	r := w.edgeRanges
	return EdgeSpec{
		OutPercentage:     w.rng.Float64() * r.OutPctMax,
		OutFixed:          w.rng.Float64() * r.OutFixedMax,
		Health:            r.Health,
		FireWithin:        r.FireWithin,
		EndNodeFireWithin: r.EndNodeFireWithin,
	}
}

// removeDeadEdgesLocked compacts the edge arena, dropping every edge whose
// health reached zero this tick. Removal is a single sequential pass so no
// other phase ever iterates a mutating collection. Returns the number of
// edges pruned.
func (w *Web) removeDeadEdgesLocked() int {
	pruned := 0
	kept := w.edges[:0]
	for _, e := range w.edges {
		if e.Health > 0 {
			kept = append(kept, e)
			continue
		}
		w.pairs.Remove(w.nodes[e.Start].ID, w.nodes[e.End].ID)
		w.nodes[e.Start].OutDegree--
		pruned++
	}
	// Clear the tail so dropped edges are collectable.
	for i := len(kept); i < len(w.edges); i++ {
		w.edges[i] = nil
	}
	w.edges = kept

	if pruned > 0 {
		atomic.AddUint64(&w.stats.EdgeCount, ^uint64(pruned-1))
		atomic.AddUint64(&w.stats.EdgesPruned, uint64(pruned))
		if w.registry != nil {
			w.registry.RecordPruned(pruned)
			w.registry.SetGraphSize(len(w.nodes), len(w.edges))
		}
	}
	return pruned
}

// DumpEdges returns a diagnostic snapshot of the web's topology.
func (w *Web) DumpEdges() []EdgeState {
	w.mu.Lock()
	defer w.mu.Unlock()

	states := make([]EdgeState, len(w.edges))
	for i, e := range w.edges {
		states[i] = EdgeState{
			StartID:       w.nodes[e.Start].ID,
			EndID:         w.nodes[e.End].ID,
			OutPercentage: e.OutPercentage,
			OutFixed:      e.OutFixed,
			Health:        e.Health,
			LastFire:      e.LastFire,
		}
	}
	return states
}
