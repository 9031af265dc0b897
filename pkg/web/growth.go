package web

import (
	"sync/atomic"
	"time"
)

// Grow attempts to add up to requested new edges to a randomly chosen
// under-connected node without exceeding maxTries total attempts. It is
// best-effort: a fully saturated web is a no-op, not an error. Returns the
// number of edges created.
//
// A node is available as a growth target while its out-degree is below
// nodeCount-1. Each attempt picks a uniformly random available target and
// connects it to up to requested distinct nodes it is not yet paired with;
// the first successful batch ends the call.
func (w *Web) Grow(requested, maxTries int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if requested <= 0 || maxTries <= 0 || len(w.nodes) < 2 {
		return 0
	}

	start := time.Now()
	for tries := 0; tries < maxTries; tries++ {
		available := w.availableTargetsLocked()
		if len(available) == 0 {
			return 0
		}
		target := available[w.rng.Intn(len(available))]

		candidates := w.unpairedCandidatesLocked(target)
		if len(candidates) == 0 {
			// Fully paired despite spare out-degree (incoming edges
			// count against pairing, not degree). Costs a try.
			continue
		}

		k := requested
		if k > len(candidates) {
			k = len(candidates)
		}
		w.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, end := range candidates[:k] {
			if err := w.connectLocked(target, end, w.randomEdgeSpec()); err != nil {
				panic(err) // candidate set was computed from the pair index
			}
		}

		atomic.AddUint64(&w.stats.EdgesAdded, uint64(k))
		if w.registry != nil {
			w.registry.RecordGrowth(time.Since(start), k)
		}
		return k
	}
	return 0
}

// availableTargetsLocked returns the indices of nodes whose out-degree still
// leaves room for a new outgoing edge.
func (w *Web) availableTargetsLocked() []int {
	available := make([]int, 0, len(w.nodes))
	for i, n := range w.nodes {
		if n.OutDegree < len(w.nodes)-1 {
			available = append(available, i)
		}
	}
	return available
}

// unpairedCandidatesLocked returns the indices of nodes not yet paired with
// target in either orientation.
func (w *Web) unpairedCandidatesLocked(target int) []int {
	candidates := make([]int, 0, len(w.nodes))
	targetID := w.nodes[target].ID
	for i, n := range w.nodes {
		if i == target {
			continue
		}
		if !w.pairs.Contains(targetID, n.ID) {
			candidates = append(candidates, i)
		}
	}
	return candidates
}
