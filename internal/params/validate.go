package params

import (
	"math"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// Physical bounds per field. Validation fails fast on the first
// violation, naming the field, its value and the bound.
const (
	MinRadius = 0.01
	MaxRadius = 5.0

	// Blade length may not exceed this multiple of the radius.
	MaxBladeLenRatio = 2.0

	MinCuttingWidth = 0.1
	MaxCuttingWidth = 10.0

	MinMass = 0.1
	MaxMass = 1000.0

	MinBlades = 1
	MaxBlades = 12

	MinTorque = 0.1
	MaxTorque = 10000.0

	MaxFriction = 100.0
	MaxDrag     = 10.0

	MaxVegDensity      = 10.0
	MaxGrassResistance = 1000.0
	MaxAdvanceVelocity = 20.0

	MaxAngularVelocity = 1000.0

	MaxDuration = 3600.0
	MinPoints   = 10
	MaxPoints   = 10_000_000
)

type boundsCheck struct {
	field string
	value func(ParameterSet) float64
	min   float64
	max   float64
}

var boundsTable = []boundsCheck{
	{"radius", func(p ParameterSet) float64 { return p.Radius }, MinRadius, MaxRadius},
	{"blade_length_fraction", func(p ParameterSet) float64 { return p.BladeLenFrac }, 0, 1},
	{"cutting_width", func(p ParameterSet) float64 { return p.CuttingWidth }, MinCuttingWidth, MaxCuttingWidth},
	{"total_mass", func(p ParameterSet) float64 { return p.TotalMass }, MinMass, MaxMass},
	{"plate_mass_fraction", func(p ParameterSet) float64 { return p.PlateMassFrac }, 0, 1},
	{"input_torque", func(p ParameterSet) float64 { return p.InputTorque }, MinTorque, MaxTorque},
	{"viscous_friction", func(p ParameterSet) float64 { return p.ViscousFriction }, 0, MaxFriction},
	{"drag_coefficient", func(p ParameterSet) float64 { return p.DragCoeff }, 0, MaxDrag},
	{"vegetation_density", func(p ParameterSet) float64 { return p.VegDensity }, 0, MaxVegDensity},
	{"grass_resistance", func(p ParameterSet) float64 { return p.GrassResistance }, 0, MaxGrassResistance},
	{"advance_velocity", func(p ParameterSet) float64 { return p.AdvanceVelocity }, 0, MaxAdvanceVelocity},
	{"rtol", func(p ParameterSet) float64 { return p.RelTol }, math.SmallestNonzeroFloat64, 1},
	{"atol", func(p ParameterSet) float64 { return p.AbsTol }, math.SmallestNonzeroFloat64, 1},
	{"initial_omega", func(p ParameterSet) float64 { return p.InitialOmega }, -MaxAngularVelocity, MaxAngularVelocity},
}

// Validate checks every field against the bounds table plus the
// cross-field constraints, returning the set unchanged on success.
func Validate(p ParameterSet) (ParameterSet, error) {
	for _, b := range boundsTable {
		v := b.value(p)
		if math.IsNaN(v) {
			return p, dynamics.Validationf(b.field, v, "must be a number")
		}
		if v < b.min || v > b.max {
			return p, dynamics.Validationf(b.field, v, "outside valid range [%g, %g]", b.min, b.max)
		}
	}

	if p.BladeCount < MinBlades || p.BladeCount > MaxBlades {
		return p, dynamics.Validationf("blade_count", float64(p.BladeCount),
			"must be an integer in [%d, %d]", MinBlades, MaxBlades)
	}
	if p.Duration <= 0 || p.Duration > MaxDuration {
		return p, dynamics.Validationf("duration", p.Duration,
			"must be in (0, %g]", MaxDuration)
	}
	if p.Points < MinPoints || p.Points > MaxPoints {
		return p, dynamics.Validationf("points", float64(p.Points),
			"must be an integer in [%d, %d]", MinPoints, MaxPoints)
	}
	if p.MaxStep < 0 {
		return p, dynamics.Validationf("max_step", p.MaxStep, "must be non-negative")
	}

	// Cross-field: implied blade length against the length/radius limit.
	if l := p.BladeLength(); l > MaxBladeLenRatio*p.Radius {
		return p, dynamics.Validationf("blade_length_fraction", p.BladeLenFrac,
			"implies blade length %.3g m, exceeding %g x radius", l, MaxBladeLenRatio)
	}
	// Cross-field: blades must carry positive mass.
	if p.PlateMassFrac >= 1 {
		return p, dynamics.Validationf("plate_mass_fraction", p.PlateMassFrac,
			"leaves no mass for the blades")
	}
	return p, nil
}
