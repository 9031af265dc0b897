package web

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/mwmuni/morass-web/pkg/logging"
	"github.com/mwmuni/morass-web/pkg/parallel"
)

// NewWeb creates an empty web with the given options. Zero-valued option
// fields fall back to defaults.
func NewWeb(opts Options) *Web {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.NodeRanges == (NodeRanges{}) {
		opts.NodeRanges = DefaultNodeRanges()
	}
	if opts.EdgeRanges == (EdgeRanges{}) {
		opts.EdgeRanges = DefaultEdgeRanges()
	}

	return &Web{
		pairs:      NewPairIndex(),
		rng:        opts.Rand,
		pool:       parallel.NewWorkerPool(opts.Workers),
		logger:     opts.Logger,
		registry:   opts.Metrics,
		nodeRanges: opts.NodeRanges,
		edgeRanges: opts.EdgeRanges,
		policies:   opts.Policies,
	}
}

// Close releases the web's worker pool.
func (w *Web) Close() {
	w.pool.Close()
}

// AddNode appends a node with the given parameters and returns its index.
// Node IDs are 1-based and stable; nodes are never removed.
func (w *Web) AddNode(spec NodeSpec) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addNodeLocked(spec)
}

func (w *Web) addNodeLocked(spec NodeSpec) int {
	index := len(w.nodes)
	w.nodes = append(w.nodes, &Node{
		ID:                    index + 1,
		Threshold:             spec.Threshold,
		Charge:                spec.Charge,
		Cooldown:              spec.Cooldown,
		ConsumptionPercentage: spec.ConsumptionPercentage,
		ConsumptionFixed:      spec.ConsumptionFixed,
		DecayPercentage:       spec.DecayPercentage,
		DecayFixed:            spec.DecayFixed,
	})

	atomic.AddUint64(&w.stats.NodeCount, 1)
	if w.registry != nil {
		w.registry.SetGraphSize(len(w.nodes), len(w.edges))
	}
	return index
}

// randomNodeSpec draws node parameters uniformly from the configured ranges.
func (w *Web) randomNodeSpec() NodeSpec {
	r := w.nodeRanges
	return NodeSpec{
		Threshold:             w.rng.Float64() * r.ThresholdMax,
		Charge:                w.rng.Float64() * r.ChargeMax,
		Cooldown:              w.rng.Intn(r.CooldownMax) + 1,
		ConsumptionPercentage: w.rng.Float64() * r.ConsumptionPctMax,
		ConsumptionFixed:      w.rng.Float64() * r.ConsumptionFixedMax,
		DecayPercentage:       w.rng.Float64() * r.DecayPctMax,
		DecayFixed:            w.rng.Float64() * r.DecayFixedMax,
	}
}

// InjectNode adds amount directly to a node's charge outside the tick cycle.
// The index is range-checked; out-of-range aborts the call, not the web.
func (w *Web) InjectNode(index int, amount float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index < 0 || index >= len(w.nodes) {
		return nodeNotFoundError("Inject", index)
	}
	w.nodes[index].Charge += amount
	return nil
}

// NodeCharge returns the current charge of the node at index.
func (w *Web) NodeCharge(index int) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if index < 0 || index >= len(w.nodes) {
		return 0, nodeNotFoundError("NodeCharge", index)
	}
	return w.nodes[index].Charge, nil
}

// DumpNodes returns a diagnostic snapshot of every node's mutable state.
func (w *Web) DumpNodes() []NodeState {
	w.mu.Lock()
	defer w.mu.Unlock()

	states := make([]NodeState, len(w.nodes))
	for i, n := range w.nodes {
		states[i] = NodeState{
			ID:                n.ID,
			Charge:            n.Charge,
			CooldownRemaining: n.CooldownRemaining,
			SinceLastFire:     n.SinceLastFire,
			OutDegree:         n.OutDegree,
		}
	}
	return states
}

// addTempCharge accumulates an incoming pulse into the node's per-tick
// accumulator. Concurrent propagate workers compose through a CAS loop on the
// float64 bits; addition commutes, so no ordering across edges is required.
func (n *Node) addTempCharge(pulse float64) {
	for {
		oldBits := atomic.LoadUint64(&n.tempChargeBits)
		newBits := math.Float64bits(math.Float64frombits(oldBits) + pulse)
		if atomic.CompareAndSwapUint64(&n.tempChargeBits, oldBits, newBits) {
			return
		}
	}
}

// drainTempCharge returns the accumulated pulses and resets the accumulator.
func (n *Node) drainTempCharge() float64 {
	return math.Float64frombits(atomic.SwapUint64(&n.tempChargeBits, 0))
}

// TempCharge returns the pulse accumulated so far this tick. Outside the
// propagate-to-assimilate window it is always zero.
func (n *Node) TempCharge() float64 {
	return math.Float64frombits(atomic.LoadUint64(&n.tempChargeBits))
}
