package web

import (
	"sync/atomic"
	"time"

	"github.com/mwmuni/morass-web/pkg/logging"
)

// Step advances the simulation exactly one tick through five strictly
// ordered phases:
//
//  1. propagate: every edge whose start node is eligible reads the tick
//     snapshot and accumulates its pulse into the end node's temp charge
//  2. consume: firing-eligible nodes at/above threshold lose charge
//  3. decay: every node loses charge unconditionally
//  4. assimilate: accumulated pulses merge into charge
//  5. cooldown/health: cooldowns tick down, edge health penalties apply,
//     zero-health edges are pruned
//
// Each phase is a data-parallel fan-out over nodes or edges; a barrier
// separates the phases, so no phase observes another phase's partial work.
// Decay runs before assimilate on purpose: pulses must not decay in the tick
// they arrive.
//
// verbose requests a trace of each firing edge as a logging side effect only.
func (w *Web) Step(verbose bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()

	w.ensureScratch()
	pulses := w.propagate(verbose)
	w.consume()
	w.decay()
	w.assimilate()
	w.cooldownHealthPrune()

	atomic.AddUint64(&w.stats.Steps, 1)
	if w.registry != nil {
		w.registry.RecordStep(time.Since(start), pulses)
	}
}

// ensureScratch sizes the per-tick scratch slices to the node arena.
func (w *Web) ensureScratch() {
	if len(w.snapCharge) != len(w.nodes) {
		w.snapCharge = make([]float64, len(w.nodes))
		w.snapEligible = make([]bool, len(w.nodes))
		w.fired = make([]uint32, len(w.nodes))
	}
}

// propagate is phase 1. It first captures a consistent per-node snapshot of
// charge and cooldown eligibility, then fans out over the edges: every
// eligible edge computes its pulse from the snapshot, so all outgoing edges
// of a firing node fire in the same tick regardless of iteration order.
// Writers only touch state semantically assigned to them (the destination's
// temp charge via commutative add, their own edge record, and the shared
// fired flags via idempotent stores), so no ordering across workers is needed.
// Returns the number of pulses carried this tick.
func (w *Web) propagate(verbose bool) uint64 {
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := w.nodes[i]
			w.snapCharge[i] = n.Charge
			w.snapEligible[i] = n.CooldownRemaining == 0
			w.fired[i] = 0
		}
	})

	var pulses uint64
	w.pool.Fanout(len(w.edges), func(lo, hi int) {
		var carried uint64
		for i := lo; i < hi; i++ {
			e := w.edges[i]
			if !w.snapEligible[e.Start] {
				e.LastFire++
				continue
			}

			pulse := 0.0
			if w.snapCharge[e.Start] >= w.nodes[e.Start].Threshold {
				pulse = w.snapCharge[e.Start]*e.OutPercentage + e.OutFixed
			}
			if pulse > 0 {
				w.nodes[e.End].addTempCharge(pulse)
				atomic.StoreUint32(&w.fired[e.Start], 1)
				e.LastFire = 0
				carried++
				if verbose {
					w.logger.Info("edge fired",
						logging.Int("start", w.nodes[e.Start].ID),
						logging.Int("end", w.nodes[e.End].ID),
						logging.Float64("pulse", pulse),
					)
				}
			} else {
				e.LastFire++
			}
		}
		if carried > 0 {
			atomic.AddUint64(&pulses, carried)
		}
	})

	// Apply firing effects node-locally: cooldown rearms and the
	// since-last-fire clock resets.
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if w.fired[i] == 1 {
				n := w.nodes[i]
				n.CooldownRemaining = n.Cooldown
				n.SinceLastFire = 0
			}
		}
	})

	if pulses > 0 {
		atomic.AddUint64(&w.stats.PulsesFired, pulses)
	}
	return pulses
}

// consume is phase 2. A node on cooldown is fully skipped: a node that fired
// in phase 1 with a nonzero cooldown neither fires again nor loses charge
// from firing this tick.
func (w *Web) consume() {
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := w.nodes[i]
			if n.CooldownRemaining > 0 {
				continue
			}
			if n.Charge >= n.Threshold {
				n.Charge -= n.Charge*n.ConsumptionPercentage + n.ConsumptionFixed
			}
		}
	})
}

// decay is phase 3: unconditional, applied to the pre-assimilation charge.
func (w *Web) decay() {
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := w.nodes[i]
			n.Charge -= n.Charge*n.DecayPercentage + n.DecayFixed
		}
	})
}

// assimilate is phase 4: merge the pulses accumulated during propagate.
func (w *Web) assimilate() {
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := w.nodes[i]
			n.Charge += n.drainTempCharge()
		}
	})
}

// cooldownHealthPrune is phase 5. The node pass ticks cooldowns down and
// advances the since-last-fire clock of nodes that did not fire this tick.
// The edge pass then applies the health penalties, each at most once per
// condition per tick (both may apply in the same tick), and finally dead
// edges are removed in a single compacting pass.
func (w *Web) cooldownHealthPrune() {
	w.pool.Fanout(len(w.nodes), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			n := w.nodes[i]
			if n.CooldownRemaining > 0 {
				n.CooldownRemaining--
			}
			if w.fired[i] == 0 {
				n.SinceLastFire++
			}
		}
	})

	dead := uint32(0)
	w.pool.Fanout(len(w.edges), func(lo, hi int) {
		found := false
		for i := lo; i < hi; i++ {
			e := w.edges[i]
			if w.policies.PenalizeIdleTarget && e.Health > 0 &&
				w.nodes[e.End].SinceLastFire == e.EndNodeFireWithin {
				e.Health--
			}
			if w.policies.PenalizeStaleEdge && e.Health > 0 && e.FireWithin > 0 &&
				e.LastFire%e.FireWithin == e.FireWithin-1 {
				e.Health--
			}
			if e.Health == 0 {
				found = true
			}
		}
		if found {
			atomic.StoreUint32(&dead, 1)
		}
	})

	if dead == 1 {
		w.removeDeadEdgesLocked()
	}
}
