package web

import "github.com/mwmuni/morass-web/pkg/logging"

// pairRetryBudget caps the total number of rejected random draws during
// bootstrap wiring before the web is returned with fewer edges than asked.
const pairRetryBudget = 1000

// MakeRandomWeb constructs a web with nodeCount nodes carrying randomized
// parameters and attempts to wire edgeCount unique, non-self, unordered
// pairs. Running out of retry budget is not an error: the web is returned
// with as many edges as were found and the shortfall is logged.
func MakeRandomWeb(nodeCount, edgeCount int, opts Options) *Web {
	w := NewWeb(opts)

	w.mu.Lock()
	defer w.mu.Unlock()

	for i := 0; i < nodeCount; i++ {
		w.addNodeLocked(w.randomNodeSpec())
	}

	if nodeCount < 2 {
		if edgeCount > 0 {
			w.logger.Warn("bootstrap wiring skipped: not enough nodes to pair",
				logging.Int("nodes", nodeCount),
				logging.Int("requested", edgeCount),
			)
		}
		return w
	}

	tries := 0
	for created := 0; created < edgeCount; created++ {
		start := w.rng.Intn(nodeCount)
		end := w.rng.Intn(nodeCount)
		for start == end || w.pairs.Contains(w.nodes[start].ID, w.nodes[end].ID) {
			start = w.rng.Intn(nodeCount)
			end = w.rng.Intn(nodeCount)
			tries++
			if tries > pairRetryBudget {
				w.logger.Warn("bootstrap wiring fell short of requested edges",
					logging.Int("requested", edgeCount),
					logging.Int("wired", created),
				)
				return w
			}
		}
		if err := w.connectLocked(start, end, w.randomEdgeSpec()); err != nil {
			// The pair was checked above; a failure here means the
			// index and the arena have diverged.
			panic(err)
		}
	}
	return w
}
