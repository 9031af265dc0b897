// Package config loads and validates the simulation configuration.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mwmuni/morass-web/pkg/web"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the full simulation configuration.
type Config struct {
	// Workers is the fan-out width of the data-parallel phases.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers" validate:"min=0"`
	// Seed seeds the simulation RNG. Zero means a process-random seed.
	Seed int64 `yaml:"seed"`

	Nodes  NodeConfig   `yaml:"nodes"`
	Edges  EdgeConfig   `yaml:"edges"`
	Health HealthConfig `yaml:"health"`
	Growth GrowthConfig `yaml:"growth"`

	// ReportEvery is the step interval between counter reports in the
	// driver.
	ReportEvery int `yaml:"report_every" validate:"min=1"`
	// MetricsAddr, when set, is the listen address for the Prometheus
	// endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// NodeConfig bounds the random node parameter draws at bootstrap.
type NodeConfig struct {
	ThresholdMax        float64 `yaml:"threshold_max" validate:"gt=0"`
	ChargeMax           float64 `yaml:"charge_max" validate:"gte=0"`
	CooldownMax         int     `yaml:"cooldown_max" validate:"min=1"`
	ConsumptionPctMax   float64 `yaml:"consumption_pct_max" validate:"gte=0"`
	ConsumptionFixedMax float64 `yaml:"consumption_fixed_max" validate:"gte=0"`
	DecayPctMax         float64 `yaml:"decay_pct_max" validate:"gte=0,lte=1"`
	DecayFixedMax       float64 `yaml:"decay_fixed_max" validate:"gte=0"`
}

// EdgeConfig bounds the random edge transforms and carries the default
// health and stale-fire windows for new edges.
type EdgeConfig struct {
	OutPctMax         float64 `yaml:"out_pct_max" validate:"gt=0"`
	OutFixedMax       float64 `yaml:"out_fixed_max" validate:"gte=0"`
	Health            int     `yaml:"health" validate:"min=1"`
	FireWithin        int     `yaml:"fire_within" validate:"min=1"`
	EndNodeFireWithin int     `yaml:"end_node_fire_within" validate:"min=1"`
}

// HealthConfig toggles the two independent edge-health penalties.
type HealthConfig struct {
	PenalizeStaleEdge  bool `yaml:"penalize_stale_edge"`
	PenalizeIdleTarget bool `yaml:"penalize_idle_target"`
}

// GrowthConfig controls the periodic growth calls made by the driver.
type GrowthConfig struct {
	// EdgesPerStep is the number of edges requested from each growth call.
	EdgesPerStep int `yaml:"edges_per_step" validate:"min=0"`
	// MaxTries bounds the attempts of a single growth call.
	MaxTries int `yaml:"max_tries" validate:"min=1"`
}

// Default returns the configuration matching the reference simulation.
func Default() Config {
	return Config{
		Workers: 0,
		Nodes: NodeConfig{
			ThresholdMax:        10.0,
			ChargeMax:           5.0,
			CooldownMax:         5,
			ConsumptionPctMax:   20.0,
			ConsumptionFixedMax: 3.0,
			DecayPctMax:         0.05,
			DecayFixedMax:       0.2,
		},
		Edges: EdgeConfig{
			OutPctMax:         1.0,
			OutFixedMax:       5.0,
			Health:            3,
			FireWithin:        5,
			EndNodeFireWithin: 3,
		},
		Health: HealthConfig{
			PenalizeStaleEdge:  true,
			PenalizeIdleTarget: true,
		},
		Growth: GrowthConfig{
			EdgesPerStep: 5,
			MaxTries:     1000,
		},
		ReportEvery: 1000,
		LogLevel:    "info",
	}
}

// Load reads a YAML configuration file over the defaults and validates the
// result. Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// NodeRanges converts the node bounds into the web's bootstrap ranges.
func (c *Config) NodeRanges() web.NodeRanges {
	return web.NodeRanges{
		ThresholdMax:        c.Nodes.ThresholdMax,
		ChargeMax:           c.Nodes.ChargeMax,
		CooldownMax:         c.Nodes.CooldownMax,
		ConsumptionPctMax:   c.Nodes.ConsumptionPctMax,
		ConsumptionFixedMax: c.Nodes.ConsumptionFixedMax,
		DecayPctMax:         c.Nodes.DecayPctMax,
		DecayFixedMax:       c.Nodes.DecayFixedMax,
	}
}

// EdgeRanges converts the edge bounds into the web's edge defaults.
func (c *Config) EdgeRanges() web.EdgeRanges {
	return web.EdgeRanges{
		OutPctMax:         c.Edges.OutPctMax,
		OutFixedMax:       c.Edges.OutFixedMax,
		Health:            c.Edges.Health,
		FireWithin:        c.Edges.FireWithin,
		EndNodeFireWithin: c.Edges.EndNodeFireWithin,
	}
}

// Policies converts the health toggles into the web's penalty policies.
func (c *Config) Policies() web.HealthPolicies {
	return web.HealthPolicies{
		PenalizeStaleEdge:  c.Health.PenalizeStaleEdge,
		PenalizeIdleTarget: c.Health.PenalizeIdleTarget,
	}
}

// formatValidationError rewrites the first validator error in a
// user-friendly format.
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: failed %s validation", field, tag)
		}
	}
	return err
}
