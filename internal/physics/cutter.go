package physics

import (
	"math"

	"github.com/agromech/cuttersim/internal/dynamics"
	"github.com/agromech/cuttersim/internal/params"
)

// Inertia returns the plate, blade and total moments of inertia.
// The plate is a uniform disk, each blade a point mass at the tip:
//
//	I_plate  = 0.5 * m_plate * R²
//	I_blades = n * m_blade * (R + L)²
//
// Changing the mass distribution assumptions requires changing both
// terms together with the blade-mass derivation in params.
func Inertia(p params.ParameterSet) (plate, blades, total float64) {
	r := p.Radius
	plate = 0.5 * p.PlateMass() * r * r
	tip := r + p.BladeLength()
	blades = float64(p.BladeCount) * p.BladeMass() * tip * tip
	return plate, blades, plate + blades
}

// Model evaluates the cutter's ODE right-hand side. It is immutable
// and side-effect free; Derivative is invoked many times per
// integration step.
type Model struct {
	p       params.ParameterSet
	inertia float64
	input   dynamics.TorqueFunc
	grass   dynamics.TorqueFunc
}

// New builds a model from a validated parameter set. A nil input
// function means the constant motor torque from the parameters; a nil
// grass function means the fixed vegetation law
// k_grass * rho_veg * v_advance * R.
func New(p params.ParameterSet, input, grass dynamics.TorqueFunc) *Model {
	_, _, total := Inertia(p)
	if input == nil {
		tau := p.InputTorque
		input = func(t, theta float64) float64 { return tau }
	}
	if grass == nil {
		tau := p.GrassResistance * p.VegDensity * p.AdvanceVelocity * p.Radius
		grass = func(t, theta float64) float64 { return tau }
	}
	return &Model{p: p, inertia: total, input: input, grass: grass}
}

// Inertia is the total moment of inertia of the cutter head.
func (m *Model) Inertia() float64 {
	return m.inertia
}

// Components evaluates the torque breakdown at one instant. Resistive
// terms are signed to oppose the current sense of rotation, so a head
// at rest experiences no resistive torque.
func (m *Model) Components(t, theta, omega float64) dynamics.Components {
	return dynamics.Components{
		Input:    m.input(t, theta),
		Friction: m.p.ViscousFriction * omega,
		Drag:     m.p.DragCoeff * omega * math.Abs(omega),
		Grass:    m.grass(t, theta) * sign(omega),
	}
}

// Derivative is the ODE right-hand side: d[theta, omega]/dt.
func (m *Model) Derivative(t float64, x dynamics.State) dynamics.State {
	theta, omega := x[0], x[1]
	c := m.Components(t, theta, omega)
	return dynamics.State{omega, c.Net() / m.inertia}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
