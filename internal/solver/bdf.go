package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// bdf is a variable-step BDF2 with Newton-solved corrector steps. The
// first step falls back to backward Euler while no history exists.
// The local error estimate is the Milne device: corrector minus an
// explicit second-order predictor.
type bdf struct {
	f   RHS
	cfg Settings

	hasHistory bool
	hPrev      float64
	yPrev      dynamics.State
	fPrev      dynamics.State

	// Derivative at the current step start, cached between step and
	// accepted.
	fCur dynamics.State
}

func newBDF(f RHS, cfg Settings) *bdf {
	return &bdf{f: f, cfg: cfg}
}

func (b *bdf) order() float64 { return 2 }

func (b *bdf) accepted(t, h float64, y dynamics.State) {
	b.yPrev = y.Clone()
	b.fPrev = b.fCur.Clone()
	b.hPrev = h
	b.hasHistory = true
}

func (b *bdf) step(t float64, y dynamics.State, h float64) (stepResult, error) {
	n := len(y)
	f0 := b.f(t, y)
	evals := 1
	b.fCur = f0

	jac, je := jacobian(b.f, t, y, f0)
	evals += je

	var a1, a2, beta float64
	var yOld dynamics.State
	if b.hasHistory {
		r := h / b.hPrev
		a1 = (1 + r) * (1 + r) / (1 + 2*r)
		a2 = -r * r / (1 + 2*r)
		beta = (1 + r) / (1 + 2*r)
		yOld = b.yPrev
	} else {
		// Backward Euler bootstrap.
		a1, a2, beta = 1, 0, 1
		yOld = y
	}

	// Predictor: explicit expansion around the step start.
	pred := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		pred[i] = y[i] + h*f0[i]
	}
	if b.hasHistory {
		for i := 0; i < n; i++ {
			pred[i] += 0.5 * h * h * (f0[i] - b.fPrev[i]) / b.hPrev
		}
	}

	// Newton on g(v) = v - beta h f(t+h, v) - (a1 y + a2 yPrev).
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -beta * h * jac.At(i, j)
			if i == j {
				v += 1
			}
			m.Set(i, j, v)
		}
	}
	var lu mat.LU
	lu.Factorize(m)

	v := pred.Clone()
	rhs := mat.NewVecDense(n, nil)
	var delta mat.VecDense

	converged := false
	for iter := 0; iter < newtonMaxIter; iter++ {
		fv := b.f(t+h, v)
		evals++
		for i := 0; i < n; i++ {
			g := v[i] - beta*h*fv[i] - (a1*y[i] + a2*yOld[i])
			rhs.SetVec(i, -g)
		}
		if err := lu.SolveVecTo(&delta, false, rhs); err != nil {
			return stepResult{evals: evals}, dynamics.ErrNoConvergence
		}
		for i := 0; i < n; i++ {
			v[i] += delta.AtVec(i)
		}
		if newtonNorm(delta.RawVector().Data, y, b.cfg.RelTol, b.cfg.AbsTol) < newtonKappa {
			converged = true
			break
		}
	}
	if !converged {
		return stepResult{evals: evals}, dynamics.ErrNoConvergence
	}

	e := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		e[i] = (v[i] - pred[i]) / 3.0
	}

	fEnd := b.f(t+h, v)
	evals++

	return stepResult{
		y:       v,
		errNorm: errNorm(e, y, v, b.cfg.RelTol, b.cfg.AbsTol),
		dense:   hermite(t, h, y, v, f0, fEnd),
		evals:   evals,
	}, nil
}
