package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// Radau IIA three-stage collocation tableau (order 5).
var (
	radauC [3]float64
	radauA [3][3]float64
)

func init() {
	s6 := math.Sqrt(6.0)
	radauC = [3]float64{(4 - s6) / 10, (4 + s6) / 10, 1}
	radauA = [3][3]float64{
		{(88 - 7*s6) / 360, (296 - 169*s6) / 1800, (-2 + 3*s6) / 225},
		{(296 + 169*s6) / 1800, (88 + 7*s6) / 360, (-2 - 3*s6) / 225},
		{(16 - s6) / 36, (16 + s6) / 36, 1.0 / 9.0},
	}
}

// radau advances with the three-stage Radau IIA method. Stage values
// come from a simplified Newton iteration with the Jacobian frozen at
// the step start; the local error is estimated by step doubling.
type radau struct {
	f   RHS
	cfg Settings
}

func newRadau(f RHS, cfg Settings) *radau {
	return &radau{f: f, cfg: cfg}
}

func (r *radau) order() float64 { return 5 }

func (r *radau) accepted(t, h float64, y dynamics.State) {}

func (r *radau) step(t float64, y dynamics.State, h float64) (stepResult, error) {
	f0 := r.f(t, y)
	evals := 1
	jac, je := jacobian(r.f, t, y, f0)
	evals += je

	full, _, e1, err := r.solveStages(t, y, h, jac)
	evals += e1
	if err != nil {
		return stepResult{evals: evals}, err
	}

	half1, _, e2, err := r.solveStages(t, y, h/2, jac)
	evals += e2
	if err != nil {
		return stepResult{evals: evals}, err
	}
	half2, fEnd, e3, err := r.solveStages(t+h/2, half1, h/2, jac)
	evals += e3
	if err != nil {
		return stepResult{evals: evals}, err
	}

	n := len(y)
	e := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		// Order 5: halving the step divides the error by 2^5.
		e[i] = (half2[i] - full[i]) / 31.0
	}

	return stepResult{
		y:       half2,
		errNorm: errNorm(e, y, half2, r.cfg.RelTol, r.cfg.AbsTol),
		dense:   hermite(t, h, y, half2, f0, fEnd),
		evals:   evals,
	}, nil
}

// solveStages performs the simplified Newton iteration for the stage
// increments Z and returns the step-end state plus the final-stage
// derivative.
func (r *radau) solveStages(t float64, y dynamics.State, h float64, jac *mat.Dense) (dynamics.State, dynamics.State, int, error) {
	n := len(y)
	dim := 3 * n

	// Iteration matrix M = I - h (A ⊗ J), factorized once per step.
	m := mat.NewDense(dim, dim, nil)
	for si := 0; si < 3; si++ {
		for sj := 0; sj < 3; sj++ {
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					v := -h * radauA[si][sj] * jac.At(i, j)
					if si == sj && i == j {
						v += 1
					}
					m.Set(si*n+i, sj*n+j, v)
				}
			}
		}
	}
	var lu mat.LU
	lu.Factorize(m)

	z := make([]float64, dim)
	stage := make(dynamics.State, n)
	fs := [3]dynamics.State{}
	rhs := mat.NewVecDense(dim, nil)
	var delta mat.VecDense

	evals := 0
	prevNorm := math.Inf(1)
	for iter := 0; iter < newtonMaxIter; iter++ {
		for s := 0; s < 3; s++ {
			for i := 0; i < n; i++ {
				stage[i] = y[i] + z[s*n+i]
			}
			fs[s] = r.f(t+radauC[s]*h, stage)
			evals++
		}

		// Residual G = Z - h A f(Z); solve M delta = -G.
		for s := 0; s < 3; s++ {
			for i := 0; i < n; i++ {
				acc := 0.0
				for sj := 0; sj < 3; sj++ {
					acc += radauA[s][sj] * fs[sj][i]
				}
				rhs.SetVec(s*n+i, -(z[s*n+i] - h*acc))
			}
		}
		if err := lu.SolveVecTo(&delta, false, rhs); err != nil {
			return nil, nil, evals, dynamics.ErrNoConvergence
		}
		for i := 0; i < dim; i++ {
			z[i] += delta.AtVec(i)
		}

		norm := newtonNorm(delta.RawVector().Data, y, r.cfg.RelTol, r.cfg.AbsTol)
		if norm < newtonKappa {
			// The final stage sits at c=1, so its increment is the step.
			out := make(dynamics.State, n)
			for i := 0; i < n; i++ {
				out[i] = y[i] + z[2*n+i]
			}
			fEnd := r.f(t+h, out)
			evals++
			return out, fEnd, evals, nil
		}
		if iter > 1 && norm > 2*prevNorm {
			return nil, nil, evals, dynamics.ErrNoConvergence
		}
		prevNorm = norm
	}
	return nil, nil, evals, dynamics.ErrNoConvergence
}
