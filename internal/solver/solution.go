package solver

import (
	"math"
	"sort"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// RHS is the ODE right-hand side dy/dt = f(t, y).
type RHS func(t float64, y dynamics.State) dynamics.State

// Settings control the adaptive solve.
type Settings struct {
	RelTol      float64
	AbsTol      float64
	MaxStep     float64 // 0 means unrestricted
	InitialStep float64 // 0 means choose automatically
	MaxSteps    int     // accepted + rejected step budget
}

func DefaultSettings() Settings {
	return Settings{
		RelTol:   1e-8,
		AbsTol:   1e-10,
		MaxSteps: 500_000,
	}
}

type denseFn func(t float64) dynamics.State

// segment is one accepted step with its continuous interpolant.
type segment struct {
	t0, t1 float64
	eval   denseFn
}

// Solution is the continuous result of an adaptive solve. State at
// arbitrary times inside the span comes from each step's dense
// interpolant, not from linear interpolation between steps.
type Solution struct {
	Start, End float64
	Times      []float64 // accepted step boundaries, Start..End
	Evals      int       // right-hand-side evaluations
	Accepted   int
	Rejected   int

	// StiffSwitch is the time at which the auto method handed over to
	// BDF, negative when no switch happened.
	StiffSwitch float64

	segments []segment
	final    dynamics.State
}

// Final is the state at the end of the span.
func (s *Solution) Final() dynamics.State {
	return s.final.Clone()
}

// Eval returns the state at time t via dense output. Times outside
// the span clamp to the nearest endpoint.
func (s *Solution) Eval(t float64) dynamics.State {
	if len(s.segments) == 0 {
		return s.final.Clone()
	}
	if t <= s.Start {
		t = s.Start
	}
	if t >= s.End {
		t = s.End
	}
	i := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].t1 >= t
	})
	if i == len(s.segments) {
		i--
	}
	return s.segments[i].eval(t)
}

// hermite builds the cubic Hermite interpolant through (y0, f0) at t0
// and (y1, f1) at t0+h.
func hermite(t0, h float64, y0, y1, f0, f1 dynamics.State) denseFn {
	y0 = y0.Clone()
	y1 = y1.Clone()
	f0 = f0.Clone()
	f1 = f1.Clone()
	return func(t float64) dynamics.State {
		x := (t - t0) / h
		x2 := x * x
		x3 := x2 * x
		h00 := 2*x3 - 3*x2 + 1
		h10 := x3 - 2*x2 + x
		h01 := -2*x3 + 3*x2
		h11 := x3 - x2
		out := make(dynamics.State, len(y0))
		for i := range out {
			out[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
		}
		return out
	}
}

// errNorm is the scaled RMS norm used for step acceptance: the step is
// accepted when the norm is at most 1.
func errNorm(e, y0, y1 dynamics.State, rtol, atol float64) float64 {
	sum := 0.0
	for i := range e {
		sc := atol + rtol*math.Max(math.Abs(y0[i]), math.Abs(y1[i]))
		v := e[i] / sc
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(e)))
}
