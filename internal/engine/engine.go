package engine

import (
	"time"

	"github.com/agromech/cuttersim/internal/dynamics"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/physics"
	"github.com/agromech/cuttersim/internal/solver"
	"github.com/agromech/cuttersim/internal/torque"
)

// Option adjusts a single run without touching the parameter set.
type Option func(*runConfig)

type runConfig struct {
	grass *torque.Spec
	input *torque.Spec
}

// WithGrassTorque replaces the fixed vegetation law with a resolved
// torque function.
func WithGrassTorque(spec torque.Spec) Option {
	return func(c *runConfig) { s := spec; c.grass = &s }
}

// WithInputTorque replaces the constant motor torque with a resolved
// time function.
func WithInputTorque(spec torque.Spec) Option {
	return func(c *runConfig) { s := spec; c.input = &s }
}

// Run validates the parameter set, integrates the cutter ODE over
// [0, duration] and resamples the continuous solution onto the uniform
// grid the parameters request. Each sample carries the re-derived
// torque breakdown.
//
// Runs are deterministic: identical inputs produce identical results.
// Errors are dynamics.ValidationError, dynamics.ConfigurationError or
// dynamics.IntegrationError; no partial result accompanies an error.
func Run(p params.ParameterSet, opts ...Option) (*SimulationResult, error) {
	start := time.Now()

	p, err := params.Validate(p)
	if err != nil {
		return nil, err
	}
	method, err := solver.ParseMethod(p.Method)
	if err != nil {
		return nil, err
	}

	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	// Spatial specs that leave position derivation unset inherit the
	// machine's advance velocity and radius.
	var grassFn, inputFn dynamics.TorqueFunc
	if rc.grass != nil {
		if grassFn, err = torque.Resolve(rc.grass.WithDefaults(p.AdvanceVelocity, p.Radius)); err != nil {
			return nil, err
		}
	}
	if rc.input != nil {
		if inputFn, err = torque.Resolve(rc.input.WithDefaults(p.AdvanceVelocity, p.Radius)); err != nil {
			return nil, err
		}
	}

	model := physics.New(p, inputFn, grassFn)

	cfg := solver.Settings{
		RelTol:  p.RelTol,
		AbsTol:  p.AbsTol,
		MaxStep: p.MaxStep,
	}
	y0 := dynamics.State{p.InitialAngle, p.InitialOmega}
	sol, err := solver.Solve(model.Derivative, y0, 0, p.Duration, method, cfg)
	if err != nil {
		return nil, err
	}

	res := resample(p, method, model, sol)
	res.Elapsed = time.Since(start)
	return res, nil
}

// resample evaluates the dense solution at every grid time and
// re-derives the torque components there. The solver's internal steps
// may be finer or coarser than the requested grid; dense evaluation
// keeps accuracy away from step boundaries.
func resample(p params.ParameterSet, method solver.Method, model *physics.Model, sol *solver.Solution) *SimulationResult {
	n := p.Points
	plate, blades, total := physics.Inertia(p)

	res := &SimulationResult{
		Params:         p,
		Method:         method,
		Times:          make([]float64, n),
		Angles:         make([]float64, n),
		Omegas:         make([]float64, n),
		InputTorque:    make([]float64, n),
		FrictionTorque: make([]float64, n),
		DragTorque:     make([]float64, n),
		GrassTorque:    make([]float64, n),
		NetTorque:      make([]float64, n),
		Power:          make([]float64, n),
		KineticEnergy:  make([]float64, n),
		PlateInertia:   plate,
		BladeInertia:   blades,
		Inertia:        total,
		Evals:          sol.Evals,
		Accepted:       sol.Accepted,
		Rejected:       sol.Rejected,
		StiffSwitch:    sol.StiffSwitch,
	}

	dt := p.Duration / float64(n-1)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		if i == n-1 {
			t = p.Duration
		}
		y := sol.Eval(t)
		theta, omega := y[0], y[1]
		c := model.Components(t, theta, omega)

		res.Times[i] = t
		res.Angles[i] = theta
		res.Omegas[i] = omega
		res.InputTorque[i] = c.Input
		res.FrictionTorque[i] = c.Friction
		res.DragTorque[i] = c.Drag
		res.GrassTorque[i] = c.Grass
		res.NetTorque[i] = c.Net()
		res.Power[i] = c.Net() * omega
		res.KineticEnergy[i] = 0.5 * total * omega * omega
	}
	return res
}
