// Package web implements the morass web: a dynamic directed graph of charge
// carriers connected by pulse-propagating edges. Each call to Step advances
// the simulation one tick through five ordered phases (propagate, consume,
// decay, assimilate, cooldown/health); unhealthy edges are pruned at the end
// of the tick and new edges can be grown onto under-connected nodes at any
// point between ticks.
package web

import (
	"math/rand"
	"sync"

	"github.com/mwmuni/morass-web/pkg/logging"
	"github.com/mwmuni/morass-web/pkg/metrics"
	"github.com/mwmuni/morass-web/pkg/parallel"
)

// Node is a charge accumulator. The node fires when its charge meets or
// exceeds Threshold while not on cooldown.
//
// Threshold, Cooldown and the consumption/decay parameters are fixed at
// creation. Charge, CooldownRemaining and SinceLastFire are mutated by the
// step engine; tempChargeBits is written only by the propagate phase and
// drained only by the assimilate phase.
type Node struct {
	ID int // 1-based, stable, never reused

	Threshold             float64
	Cooldown              int // ticks to wait after firing before firing again
	ConsumptionPercentage float64
	ConsumptionFixed      float64
	DecayPercentage       float64
	DecayFixed            float64

	Charge            float64
	CooldownRemaining int
	SinceLastFire     int
	OutDegree         int

	// Pulse accumulator for the current tick, stored as float64 bits so
	// concurrent propagate workers can add to it with a CAS loop.
	tempChargeBits uint64
}

// Edge is a directed, weighted link between two nodes, addressed by node
// index into the owning Web's arena. An edge whose Health reaches zero is
// removed at the end of the tick.
type Edge struct {
	Start int // index of the start node
	End   int // index of the end node

	OutPercentage float64
	OutFixed      float64

	Health            int // destroyed when this reaches zero
	LastFire          int // ticks since this edge last carried a pulse
	FireWithin        int // stale-edge window
	EndNodeFireWithin int // idle-target window
}

// NodeSpec holds the creation-time parameters for a node.
type NodeSpec struct {
	Threshold             float64
	Charge                float64
	Cooldown              int
	ConsumptionPercentage float64
	ConsumptionFixed      float64
	DecayPercentage       float64
	DecayFixed            float64
}

// EdgeSpec holds the creation-time parameters for an edge.
type EdgeSpec struct {
	OutPercentage     float64
	OutFixed          float64
	Health            int
	FireWithin        int
	EndNodeFireWithin int
}

// NodeRanges bounds the uniform random draws used for node parameters during
// bootstrap. Cooldowns are drawn from [1, CooldownMax].
type NodeRanges struct {
	ThresholdMax        float64
	ChargeMax           float64
	CooldownMax         int
	ConsumptionPctMax   float64
	ConsumptionFixedMax float64
	DecayPctMax         float64
	DecayFixedMax       float64
}

// EdgeRanges bounds the random transform draws for new edges and carries the
// default health and stale-fire windows.
type EdgeRanges struct {
	OutPctMax         float64
	OutFixedMax       float64
	Health            int
	FireWithin        int
	EndNodeFireWithin int
}

// HealthPolicies toggles the two independent edge-health penalties applied in
// the final phase of each tick.
type HealthPolicies struct {
	// PenalizeStaleEdge decrements health when the edge itself has gone a
	// full FireWithin window without carrying a pulse.
	PenalizeStaleEdge bool
	// PenalizeIdleTarget decrements health when the destination node has
	// gone exactly EndNodeFireWithin ticks without firing.
	PenalizeIdleTarget bool
}

// DefaultNodeRanges returns the bootstrap parameter ranges of the reference
// simulation.
func DefaultNodeRanges() NodeRanges {
	return NodeRanges{
		ThresholdMax:        10.0,
		ChargeMax:           5.0,
		CooldownMax:         5,
		ConsumptionPctMax:   20.0,
		ConsumptionFixedMax: 3.0,
		DecayPctMax:         0.05,
		DecayFixedMax:       0.2,
	}
}

// DefaultEdgeRanges returns the default edge transform ranges, health and
// stale-fire windows.
func DefaultEdgeRanges() EdgeRanges {
	return EdgeRanges{
		OutPctMax:         1.0,
		OutFixedMax:       5.0,
		Health:            3,
		FireWithin:        5,
		EndNodeFireWithin: 3,
	}
}

// DefaultHealthPolicies enables both penalties.
func DefaultHealthPolicies() HealthPolicies {
	return HealthPolicies{PenalizeStaleEdge: true, PenalizeIdleTarget: true}
}

// Options configures a Web.
type Options struct {
	// Workers is the fan-out width for the data-parallel phases.
	// Zero means runtime.NumCPU().
	Workers int
	// Rand is the RNG used for bootstrap and growth. Nil means a
	// process-seeded source.
	Rand *rand.Rand
	// Logger receives verbose step traces and bootstrap shortfall warnings.
	// Nil means a no-op logger.
	Logger logging.Logger
	// Metrics, when non-nil, mirrors the web's counters and sizes into a
	// Prometheus registry.
	Metrics *metrics.Registry

	NodeRanges NodeRanges
	EdgeRanges EdgeRanges
	// Policies is used as given: the zero value disables both penalties,
	// which is a valid configuration. Pass DefaultHealthPolicies() for the
	// standard behavior.
	Policies HealthPolicies
}

// Web owns all nodes, all edges, the pair index and the counters.
// Nodes persist for the lifetime of the simulation; edges come and go.
//
// All exported methods serialize on an internal mutex: callers only ever
// observe the web before or after a complete tick.
type Web struct {
	mu sync.Mutex

	nodes []*Node
	edges []*Edge
	pairs *PairIndex

	rng      *rand.Rand
	pool     *parallel.WorkerPool
	logger   logging.Logger
	registry *metrics.Registry

	nodeRanges NodeRanges
	edgeRanges EdgeRanges
	policies   HealthPolicies

	// Per-tick scratch, sized to the node arena. snapCharge/snapEligible
	// hold the phase-1 snapshot; fired flags nodes that fired this tick.
	snapCharge   []float64
	snapEligible []bool
	fired        []uint32

	stats Statistics
}

// Statistics is a point-in-time snapshot of the web's counters.
type Statistics struct {
	NodeCount   uint64
	EdgeCount   uint64
	Steps       uint64
	PulsesFired uint64
	EdgesAdded  uint64
	EdgesPruned uint64
}

// NodeState is a diagnostic dump of one node's mutable state.
type NodeState struct {
	ID                int
	Charge            float64
	CooldownRemaining int
	SinceLastFire     int
	OutDegree         int
}

// EdgeState is a diagnostic dump of one edge's topology and reliability
// state. StartID and EndID are 1-based node IDs.
type EdgeState struct {
	StartID       int
	EndID         int
	OutPercentage float64
	OutFixed      float64
	Health        int
	LastFire      int
}
