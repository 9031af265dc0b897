package main

import (
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/mwmuni/morass-web/pkg/logging"
	"github.com/mwmuni/morass-web/pkg/web"
)

func main() {
	numNodes := flag.Int("nodes", 10, "Number of nodes")
	numEdges := flag.Int("edges", 20, "Number of bootstrap edges")
	numSteps := flag.Int("steps", 100_000, "Number of ticks")
	growEdges := flag.Int("grow", 5, "Edges requested per growth call (0 disables growth)")
	growTries := flag.Int("grow-tries", 1000, "Attempt budget per growth call")
	numWorkers := flag.Int("workers", 0, "Number of worker goroutines (0 = CPU count)")
	flag.Parse()

	if *numWorkers == 0 {
		*numWorkers = runtime.NumCPU()
	}

	fmt.Printf("🕸️  Morass Web Step Benchmark\n")
	fmt.Printf("=============================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Nodes:     %d\n", *numNodes)
	fmt.Printf("  Edges:     %d\n", *numEdges)
	fmt.Printf("  Steps:     %d\n", *numSteps)
	fmt.Printf("  CPU Cores: %d\n", runtime.NumCPU())
	fmt.Printf("  Workers:   %d\n\n", *numWorkers)

	w := web.MakeRandomWeb(*numNodes, *numEdges, web.Options{
		Workers:  *numWorkers,
		Logger:   logging.NewNopLogger(),
		Policies: web.DefaultHealthPolicies(),
	})
	defer w.Close()

	fmt.Printf("📊 Bootstrapped web with %d nodes and %d edges\n\n", w.NodeCount(), w.EdgeCount())

	start := time.Now()
	for step := 0; step < *numSteps; step++ {
		w.Step(false)
		if *growEdges > 0 {
			w.Grow(*growEdges, *growTries)
		}
	}
	elapsed := time.Since(start)

	stats := w.GetStatistics()
	fmt.Printf("Results:\n")
	fmt.Printf("  Pulses fired: %d\n", stats.PulsesFired)
	fmt.Printf("  Edges added:  %d\n", stats.EdgesAdded)
	fmt.Printf("  Edges pruned: %d\n", stats.EdgesPruned)
	fmt.Printf("  Final size:   %d nodes, %d edges\n", stats.NodeCount, stats.EdgeCount)
	fmt.Printf("  Duration:     %s\n", elapsed)
	fmt.Printf("  Throughput:   %.0f steps/sec\n", float64(*numSteps)/elapsed.Seconds())
}
