package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10.0, cfg.Nodes.ThresholdMax)
	assert.Equal(t, 5, cfg.Nodes.CooldownMax)
	assert.Equal(t, 3, cfg.Edges.Health)
	assert.Equal(t, 5, cfg.Edges.FireWithin)
	assert.Equal(t, 3, cfg.Edges.EndNodeFireWithin)
	assert.True(t, cfg.Health.PenalizeStaleEdge)
	assert.True(t, cfg.Health.PenalizeIdleTarget)
	assert.Equal(t, 5, cfg.Growth.EdgesPerStep)
	assert.Equal(t, 1000, cfg.Growth.MaxTries)
	assert.Equal(t, 1000, cfg.ReportEvery)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
workers: 4
seed: 42
nodes:
  threshold_max: 20.0
  charge_max: 5.0
  cooldown_max: 3
  consumption_pct_max: 20.0
  consumption_fixed_max: 3.0
  decay_pct_max: 0.05
  decay_fixed_max: 0.2
health:
  penalize_stale_edge: false
  penalize_idle_target: true
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 20.0, cfg.Nodes.ThresholdMax)
	assert.Equal(t, 3, cfg.Nodes.CooldownMax)
	assert.False(t, cfg.Health.PenalizeStaleEdge)
	assert.True(t, cfg.Health.PenalizeIdleTarget)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.Edges.Health)
	assert.Equal(t, 1000, cfg.ReportEvery)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "nodes: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "zero threshold",
			content: `
nodes:
  threshold_max: 0
  charge_max: 5.0
  cooldown_max: 5
  decay_pct_max: 0.05
`,
		},
		{
			name: "decay percentage above one",
			content: `
nodes:
  threshold_max: 10.0
  cooldown_max: 5
  decay_pct_max: 1.5
`,
		},
		{
			name: "zero edge health",
			content: `
edges:
  out_pct_max: 1.0
  health: 0
  fire_within: 5
  end_node_fire_within: 3
`,
		},
		{
			name:    "bad log level",
			content: "log_level: loud",
		},
		{
			name:    "zero report interval",
			content: "report_every: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestRangeConversions(t *testing.T) {
	cfg := Default()

	nr := cfg.NodeRanges()
	assert.Equal(t, cfg.Nodes.ThresholdMax, nr.ThresholdMax)
	assert.Equal(t, cfg.Nodes.CooldownMax, nr.CooldownMax)
	assert.Equal(t, cfg.Nodes.DecayFixedMax, nr.DecayFixedMax)

	er := cfg.EdgeRanges()
	assert.Equal(t, cfg.Edges.OutPctMax, er.OutPctMax)
	assert.Equal(t, cfg.Edges.Health, er.Health)
	assert.Equal(t, cfg.Edges.EndNodeFireWithin, er.EndNodeFireWithin)

	p := cfg.Policies()
	assert.Equal(t, cfg.Health.PenalizeStaleEdge, p.PenalizeStaleEdge)
	assert.Equal(t, cfg.Health.PenalizeIdleTarget, p.PenalizeIdleTarget)
}
