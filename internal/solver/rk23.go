package solver

import (
	"github.com/agromech/cuttersim/internal/dynamics"
)

// Bogacki-Shampine 3(2) pair. Dense output is the cubic Hermite
// interpolant on the step, matching the pair's third order.
type rk23 struct {
	f   RHS
	cfg Settings
}

func (r *rk23) order() float64 { return 2 }

func (r *rk23) accepted(t, h float64, y dynamics.State) {}

func (r *rk23) step(t float64, y dynamics.State, h float64) (stepResult, error) {
	n := len(y)
	f := r.f

	k1 := f(t, y)

	x := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		x[i] = y[i] + h*0.5*k1[i]
	}
	k2 := f(t+0.5*h, x)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*0.75*k2[i]
	}
	k3 := f(t+0.75*h, x)

	yNew := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + h*(2.0/9.0*k1[i]+1.0/3.0*k2[i]+4.0/9.0*k3[i])
	}
	k4 := f(t+h, yNew)

	e := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		e[i] = h * (5.0/72.0*k1[i] - 1.0/12.0*k2[i] - 1.0/9.0*k3[i] + 1.0/8.0*k4[i])
	}

	return stepResult{
		y:       yNew,
		errNorm: errNorm(e, y, yNew, r.cfg.RelTol, r.cfg.AbsTol),
		dense:   hermite(t, h, y, yNew, k1, k4),
		evals:   4,
	}, nil
}
