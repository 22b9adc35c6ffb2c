package engine

import (
	"time"

	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/solver"
)

// SimulationResult is the resampled trajectory of one run on the
// caller's uniform grid, with the torque breakdown re-derived at every
// sample. Produced once, read-only thereafter.
type SimulationResult struct {
	Params params.ParameterSet `json:"params"`
	Method solver.Method       `json:"method"`

	// Uniform sample grid.
	Times  []float64 `json:"times"`
	Angles []float64 `json:"angles"`
	Omegas []float64 `json:"omegas"`

	// Instantaneous torque components [N·m] at each sample.
	InputTorque    []float64 `json:"input_torque"`
	FrictionTorque []float64 `json:"friction_torque"`
	DragTorque     []float64 `json:"drag_torque"`
	GrassTorque    []float64 `json:"grass_torque"`
	NetTorque      []float64 `json:"net_torque"`

	// Derived per-sample series.
	Power         []float64 `json:"power"`          // net torque x omega [W]
	KineticEnergy []float64 `json:"kinetic_energy"` // 0.5 I omega² [J]

	// Scalars.
	PlateInertia float64 `json:"plate_inertia"` // [kg·m²]
	BladeInertia float64 `json:"blade_inertia"` // [kg·m²]
	Inertia      float64 `json:"inertia"`       // total [kg·m²]

	// Solver diagnostics.
	Evals       int           `json:"evals"`
	Accepted    int           `json:"accepted_steps"`
	Rejected    int           `json:"rejected_steps"`
	StiffSwitch float64       `json:"stiff_switch"` // negative when none
	Elapsed     time.Duration `json:"elapsed"`
}

// FinalAngle is the plate angle at the end of the run.
func (r *SimulationResult) FinalAngle() float64 {
	return r.Angles[len(r.Angles)-1]
}

// FinalOmega is the angular velocity at the end of the run.
func (r *SimulationResult) FinalOmega() float64 {
	return r.Omegas[len(r.Omegas)-1]
}
