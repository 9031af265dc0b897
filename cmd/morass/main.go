package main

import (
	"flag"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwmuni/morass-web/pkg/config"
	"github.com/mwmuni/morass-web/pkg/logging"
	"github.com/mwmuni/morass-web/pkg/metrics"
	"github.com/mwmuni/morass-web/pkg/web"
)

func main() {
	nodes := flag.Int("nodes", 10, "Number of nodes in the bootstrap web")
	edges := flag.Int("edges", 20, "Number of edges to wire at bootstrap")
	steps := flag.Int("steps", 100_000, "Number of ticks to run")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides config)")
	seed := flag.Int64("seed", 0, "RNG seed, 0 for random (overrides config)")
	verbose := flag.Bool("verbose", false, "Trace every firing edge")
	flag.Parse()

	logger := logging.NewDefaultLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load configuration", logging.Error(err))
			os.Exit(1)
		}
		cfg = loaded
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		logger.SetLevel(logging.ParseLevel(levelStr))
	}
	runLogger := logger.With(logging.String("run_id", uuid.NewString()))
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	registry := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, registry, runLogger)
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	runLogger.Info("bootstrapping web",
		logging.Int("nodes", *nodes),
		logging.Int("edges", *edges),
		logging.Int("workers", cfg.Workers),
	)

	w := web.MakeRandomWeb(*nodes, *edges, web.Options{
		Workers:    cfg.Workers,
		Rand:       rng,
		Logger:     runLogger,
		Metrics:    registry,
		NodeRanges: cfg.NodeRanges(),
		EdgeRanges: cfg.EdgeRanges(),
		Policies:   cfg.Policies(),
	})
	defer w.Close()

	start := time.Now()
	var lastPulses, lastAdded uint64

	for step := 0; step < *steps; step++ {
		w.Step(*verbose)

		if step%cfg.ReportEvery == 0 {
			stats := w.GetStatistics()
			runLogger.Info("progress",
				logging.Int("step", step),
				logging.Uint64("pulses_delta", stats.PulsesFired-lastPulses),
				logging.Uint64("edges_added_delta", stats.EdgesAdded-lastAdded),
				logging.Uint64("nodes", stats.NodeCount),
				logging.Uint64("edges", stats.EdgeCount),
			)
			registry.UpdateSystemMetrics(start)
		}

		stats := w.GetStatistics()
		lastPulses = stats.PulsesFired
		lastAdded = stats.EdgesAdded

		w.Grow(cfg.Growth.EdgesPerStep, cfg.Growth.MaxTries)
	}

	stats := w.GetStatistics()
	runLogger.Info("run complete",
		logging.Uint64("pulses", stats.PulsesFired),
		logging.Uint64("edges_added", stats.EdgesAdded),
		logging.Uint64("edges_pruned", stats.EdgesPruned),
		logging.Uint64("final_edges", stats.EdgeCount),
		logging.Duration("elapsed", time.Since(start)),
	)
}

func serveMetrics(addr string, registry *metrics.Registry, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		registry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	))

	logger.Info("metrics endpoint listening", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics endpoint failed", logging.Error(err))
	}
}
