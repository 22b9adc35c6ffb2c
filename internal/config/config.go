package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

// RunConfig is the on-disk description of one simulation run: the
// parameter set plus optional torque-function overrides and analyzer
// tuning.
type RunConfig struct {
	Params params.ParameterSet `yaml:"params"`

	// Optional torque overrides; nil keeps the built-in laws.
	GrassTorque *torque.Spec `yaml:"grass_torque,omitempty"`
	InputTorque *torque.Spec `yaml:"input_torque,omitempty"`

	StabilityThreshold float64 `yaml:"stability_threshold"`
	TailFraction       float64 `yaml:"tail_fraction"`
}

func DefaultConfig() *RunConfig {
	return &RunConfig{
		Params:             params.Defaults(),
		StabilityThreshold: metrics.DefaultStabilityThreshold,
		TailFraction:       metrics.DefaultTailFraction,
	}
}

// Load reads a YAML run configuration, filling omitted fields from the
// defaults.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *RunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Analyzer builds the metrics analyzer this configuration asks for.
func (c *RunConfig) Analyzer() *metrics.Analyzer {
	a := metrics.New()
	if c.StabilityThreshold > 0 {
		a.StabilityThreshold = c.StabilityThreshold
	}
	if c.TailFraction > 0 {
		a.TailFraction = c.TailFraction
	}
	return a
}
