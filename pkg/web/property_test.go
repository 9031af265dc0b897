package web

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestWebInvariants uses property-based testing to verify the structural
// invariants that must hold between ticks for any sequence of operations.
func TestWebInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property 1: bootstrap never exceeds the unique-pair bound n(n-1)/2
	// and never wires self-edges or duplicate pairs.
	properties.Property("bootstrap respects the unique-pair bound", prop.ForAll(
		func(seed int64, nodeCount, edgeCount int) bool {
			w := MakeRandomWeb(nodeCount, edgeCount, Options{
				Rand:    rand.New(rand.NewSource(seed)),
				Workers: 2,
			})
			defer w.Close()

			maxPairs := nodeCount * (nodeCount - 1) / 2
			if w.EdgeCount() > maxPairs {
				return false
			}
			return pairsConsistent(w)
		},
		gen.Int64(),
		gen.IntRange(0, 12),
		gen.IntRange(0, 40),
	))

	// Property 2: after any number of ticks, edge health stays positive and
	// the pair index matches the edge arena. Aggressive health windows make
	// pruning happen during the run.
	properties.Property("ticks preserve health and index consistency", prop.ForAll(
		func(seed int64, steps int) bool {
			w := NewWeb(Options{
				Rand:     rand.New(rand.NewSource(seed)),
				Workers:  2,
				Policies: DefaultHealthPolicies(),
				EdgeRanges: EdgeRanges{
					OutPctMax:         1.0,
					OutFixedMax:       5.0,
					Health:            3,
					FireWithin:        2,
					EndNodeFireWithin: 2,
				},
			})
			defer w.Close()

			rng := rand.New(rand.NewSource(seed + 1))
			for i := 0; i < 8; i++ {
				w.AddNode(NodeSpec{
					Threshold: rng.Float64() * 10,
					Charge:    rng.Float64() * 5,
					Cooldown:  rng.Intn(5) + 1,
				})
			}
			w.Grow(10, 1000)

			for i := 0; i < steps; i++ {
				w.Step(false)
				w.Grow(2, 100)
			}

			for _, e := range w.DumpEdges() {
				if e.Health <= 0 {
					return false
				}
			}
			return pairsConsistent(w)
		},
		gen.Int64(),
		gen.IntRange(1, 25),
	))

	// Property 3: growth never pushes a node past the degree cap n-1 and the
	// added count matches the edge-count delta.
	properties.Property("growth respects the degree cap", prop.ForAll(
		func(seed int64, requested int) bool {
			w := MakeRandomWeb(8, 4, Options{
				Rand:    rand.New(rand.NewSource(seed)),
				Workers: 2,
			})
			defer w.Close()

			before := w.EdgeCount()
			added := w.Grow(requested, 1000)
			if w.EdgeCount() != before+added {
				return false
			}

			for _, n := range w.DumpNodes() {
				if n.OutDegree > w.NodeCount()-1 {
					return false
				}
			}
			return pairsConsistent(w)
		},
		gen.Int64(),
		gen.IntRange(1, 20),
	))

	// Property 4: a sub-threshold node with zero decay keeps its charge
	// exactly, tick after tick.
	properties.Property("quiescent charge is conserved", prop.ForAll(
		func(charge float64, steps int) bool {
			w := NewWeb(Options{Workers: 2, Rand: rand.New(rand.NewSource(1))})
			defer w.Close()

			idx := w.AddNode(NodeSpec{Threshold: charge + 1, Charge: charge})
			for i := 0; i < steps; i++ {
				w.Step(false)
			}

			got, err := w.NodeCharge(idx)
			return err == nil && got == charge
		},
		gen.Float64Range(0, 1000),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

// pairsConsistent mirrors requireInvariants without the testify plumbing so
// it can serve as a gopter predicate.
func pairsConsistent(w *Web) bool {
	edges := w.DumpEdges()
	if len(edges) != w.pairs.Len() || len(edges) != w.EdgeCount() {
		return false
	}

	seen := make(map[pairKey]bool)
	outDegree := make(map[int]int)
	for _, e := range edges {
		key, ok := normalizePair(e.StartID, e.EndID)
		if !ok || seen[key] || !w.pairs.Contains(e.StartID, e.EndID) {
			return false
		}
		seen[key] = true
		outDegree[e.StartID]++
	}

	for _, n := range w.DumpNodes() {
		if outDegree[n.ID] != n.OutDegree {
			return false
		}
	}
	return true
}
