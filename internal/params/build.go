package params

import (
	"math"
	"sort"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// Build merges overrides into the default set and validates the whole
// result. Override keys are the yaml field names; numeric fields take
// float64 or int values, the method field takes a string.
func Build(overrides map[string]any) (ParameterSet, error) {
	return BuildFrom(Defaults(), overrides)
}

// BuildFrom merges overrides into base and validates. The base set is
// not modified.
func BuildFrom(base ParameterSet, overrides map[string]any) (ParameterSet, error) {
	p := base

	// Deterministic application order so the first error is stable.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := p.set(k, overrides[k]); err != nil {
			return base, err
		}
	}
	return Validate(p)
}

func (p *ParameterSet) set(field string, value any) error {
	if field == "method" {
		s, ok := value.(string)
		if !ok {
			return dynamics.Validationf(field, math.NaN(), "expects a string value")
		}
		p.Method = s
		return nil
	}

	v, ok := toFloat(value)
	if !ok {
		return dynamics.Validationf(field, math.NaN(), "expects a numeric value")
	}

	switch field {
	case "radius":
		p.Radius = v
	case "blade_length_fraction":
		p.BladeLenFrac = v
	case "cutting_width":
		p.CuttingWidth = v
	case "total_mass":
		p.TotalMass = v
	case "plate_mass_fraction":
		p.PlateMassFrac = v
	case "blade_count":
		p.BladeCount = int(v)
	case "input_torque":
		p.InputTorque = v
	case "viscous_friction":
		p.ViscousFriction = v
	case "drag_coefficient":
		p.DragCoeff = v
	case "vegetation_density":
		p.VegDensity = v
	case "grass_resistance":
		p.GrassResistance = v
	case "advance_velocity":
		p.AdvanceVelocity = v
	case "duration":
		p.Duration = v
	case "points":
		p.Points = int(v)
	case "rtol":
		p.RelTol = v
	case "atol":
		p.AbsTol = v
	case "max_step":
		p.MaxStep = v
	case "initial_angle":
		p.InitialAngle = v
	case "initial_omega":
		p.InitialOmega = v
	default:
		return dynamics.Validationf(field, v, "unknown parameter field")
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Fields returns the keyword representation of the set, suitable for
// feeding back into Build. Round-tripping yields an equal set.
func (p ParameterSet) Fields() map[string]any {
	return map[string]any{
		"radius":                p.Radius,
		"blade_length_fraction": p.BladeLenFrac,
		"cutting_width":         p.CuttingWidth,
		"total_mass":            p.TotalMass,
		"plate_mass_fraction":   p.PlateMassFrac,
		"blade_count":           p.BladeCount,
		"input_torque":          p.InputTorque,
		"viscous_friction":      p.ViscousFriction,
		"drag_coefficient":      p.DragCoeff,
		"vegetation_density":    p.VegDensity,
		"grass_resistance":      p.GrassResistance,
		"advance_velocity":      p.AdvanceVelocity,
		"duration":              p.Duration,
		"points":                p.Points,
		"method":                p.Method,
		"rtol":                  p.RelTol,
		"atol":                  p.AbsTol,
		"max_step":              p.MaxStep,
		"initial_angle":         p.InitialAngle,
		"initial_omega":         p.InitialOmega,
	}
}
