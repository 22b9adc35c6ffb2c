package config

import (
	"sort"

	"github.com/agromech/cuttersim/internal/torque"
)

// presets are ready-made run configurations for common scenarios.
var presets = map[string]func() *RunConfig{
	"default": DefaultConfig,

	// Heavy vegetation with patchy density along the pass.
	"dense_field": func() *RunConfig {
		cfg := DefaultConfig()
		cfg.Params.VegDensity = 4.0
		cfg.Params.InputTorque = 400.0
		// Advance velocity is left unset so the run's own value
		// applies, including any later override.
		spec := torque.Spec{
			Kind:       torque.GaussianPatches,
			Base:       60.0,
			Centers:    []float64{8.0, 20.0, 35.0},
			Amplitudes: []float64{30.0, 40.0, 25.0},
			Widths:     []float64{2.0, 3.0, 1.5},
			Position:   torque.AdvancePosition,
		}
		cfg.GrassTorque = &spec
		return cfg
	},

	// Light plate, most mass in the blades.
	"light_plate": func() *RunConfig {
		cfg := DefaultConfig()
		cfg.Params.PlateMassFrac = 0.15
		cfg.Params.TotalMass = 8.0
		return cfg
	},

	// Strong damping against modest inertia pushes the explicit pair
	// hard; a stiff method keeps the step size reasonable.
	"stiff": func() *RunConfig {
		cfg := DefaultConfig()
		cfg.Params.ViscousFriction = 80.0
		cfg.Params.TotalMass = 0.5
		cfg.Params.Radius = 0.1
		cfg.Params.BladeLenFrac = 0.2
		cfg.Params.CuttingWidth = 0.3
		cfg.Params.InputTorque = 20.0
		cfg.Params.Method = "radau"
		return cfg
	},

	// Undulating terrain with vegetation patches and a transition band.
	"terrain": func() *RunConfig {
		cfg := DefaultConfig()
		spec := torque.DefaultTerrain()
		cfg.GrassTorque = &spec
		return cfg
	},
}

// GetPreset returns a fresh config for the named preset, nil when the
// name is unknown.
func GetPreset(name string) *RunConfig {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
