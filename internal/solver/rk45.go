package solver

import (
	"github.com/agromech/cuttersim/internal/dynamics"
)

// Dormand-Prince 5(4) coefficients.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0

	// Fourth-order dense-output weights.
	dd1 = -12715105075.0 / 11282082432.0
	dd3 = 87487479700.0 / 32700410799.0
	dd4 = -10690763975.0 / 1880347072.0
	dd5 = 701980252875.0 / 199316789632.0
	dd6 = -1453857185.0 / 822651844.0
	dd7 = 69997945.0 / 29380423.0
)

type rk45 struct {
	f   RHS
	cfg Settings
}

func (r *rk45) order() float64 { return 4 }

func (r *rk45) accepted(t, h float64, y dynamics.State) {}

func (r *rk45) step(t float64, y dynamics.State, h float64) (stepResult, error) {
	n := len(y)
	f := r.f

	k1 := f(t, y)

	x := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		x[i] = y[i] + h*b21*k1[i]
	}
	k2 := f(t+a2*h, x)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := f(t+a3*h, x)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := f(t+a4*h, x)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := f(t+a5*h, x)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := f(t+h, x)

	yNew := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	k7 := f(t+h, yNew)

	e := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		e[i] = h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
	}

	dense := rk45Dense(t, h, y, yNew, k1, k3, k4, k5, k6, k7)

	return stepResult{
		y:       yNew,
		errNorm: errNorm(e, y, yNew, r.cfg.RelTol, r.cfg.AbsTol),
		dense:   dense,
		evals:   7,
	}, nil
}

// rk45Dense is the quartic continuous extension of the Dormand-Prince
// pair, exact at both step endpoints.
func rk45Dense(t0, h float64, y0, y1, k1, k3, k4, k5, k6, k7 dynamics.State) denseFn {
	n := len(y0)
	r1 := y0.Clone()
	r2 := make(dynamics.State, n) // y1 - y0
	r3 := make(dynamics.State, n) // h*k1 - (y1 - y0)
	r4 := make(dynamics.State, n) // (y1-y0) - h*k7 - r3
	r5 := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		dy := y1[i] - y0[i]
		r2[i] = dy
		r3[i] = h*k1[i] - dy
		r4[i] = dy - h*k7[i] - r3[i]
		r5[i] = h * (dd1*k1[i] + dd3*k3[i] + dd4*k4[i] + dd5*k5[i] + dd6*k6[i] + dd7*k7[i])
	}
	return func(t float64) dynamics.State {
		s := (t - t0) / h
		s1 := 1 - s
		out := make(dynamics.State, n)
		for i := 0; i < n; i++ {
			out[i] = r1[i] + s*(r2[i]+s1*(r3[i]+s*(r4[i]+s1*r5[i])))
		}
		return out
	}
}
