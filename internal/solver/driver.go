package solver

import (
	"math"

	"github.com/agromech/cuttersim/internal/dynamics"
)

const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0

	// Consecutive rejections before the auto method declares the
	// problem stiff and hands over to BDF.
	stiffRejections = 10
)

type stepResult struct {
	y       dynamics.State
	errNorm float64
	dense   denseFn
	evals   int
}

// stepper advances the solution one trial step. Implementations may
// keep history; accepted is called exactly once per accepted step with
// the state the step started from.
type stepper interface {
	order() float64
	step(t float64, y dynamics.State, h float64) (stepResult, error)
	accepted(t, h float64, y dynamics.State)
}

func newStepper(m Method, f RHS, cfg Settings) (stepper, error) {
	switch m {
	case RK45:
		return &rk45{f: f, cfg: cfg}, nil
	case RK23:
		return &rk23{f: f, cfg: cfg}, nil
	case GBS8:
		return &gbs8{f: f, cfg: cfg}, nil
	case Radau:
		return newRadau(f, cfg), nil
	case BDF:
		return newBDF(f, cfg), nil
	}
	return nil, dynamics.Configurationf("unknown integration method %q", m)
}

// Solve integrates dy/dt = f over [t0, t1] with adaptive steps,
// recording a dense interpolant per accepted step. Failures surface as
// IntegrationError carrying the last accepted state.
func Solve(f RHS, y0 dynamics.State, t0, t1 float64, m Method, cfg Settings) (*Solution, error) {
	if t1 <= t0 {
		return nil, dynamics.Configurationf("empty time span [%g, %g]", t0, t1)
	}
	if !y0.IsValid() {
		return nil, &dynamics.IntegrationError{Reason: dynamics.ErrNonFinite}
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultSettings().MaxSteps
	}

	method := m
	if method == Auto {
		method = RK45
	}
	st, err := newStepper(method, f, cfg)
	if err != nil {
		return nil, err
	}

	sol := &Solution{Start: t0, End: t1, StiffSwitch: -1}
	span := t1 - t0
	hmin := 1e-13 * span

	t := t0
	y := y0.Clone()
	sol.Times = append(sol.Times, t)

	h := cfg.InitialStep
	if h <= 0 {
		h = initialStep(f, t0, y, span, st.order(), cfg, sol)
	}
	h = clampStep(h, span, cfg.MaxStep)

	consecutiveRejects := 0
	steps := 0

	for t < t1 {
		if steps >= cfg.MaxSteps {
			return nil, &dynamics.IntegrationError{
				Reason: dynamics.ErrStepBudget, LastTime: t, LastState: y, Steps: steps,
			}
		}
		steps++

		if h < hmin {
			return nil, &dynamics.IntegrationError{
				Reason: dynamics.ErrStepTooSmall, LastTime: t, LastState: y, Steps: steps,
			}
		}
		hTrial := math.Min(h, t1-t)

		res, stepErr := st.step(t, y, hTrial)
		sol.Evals += res.evals

		reject := false
		switch {
		case stepErr != nil:
			// Implicit iteration failure: retry with a smaller step.
			reject = true
			h = hTrial * 0.5
			if h < hmin {
				return nil, &dynamics.IntegrationError{
					Reason: dynamics.ErrNoConvergence, LastTime: t, LastState: y, Steps: steps,
				}
			}
		case !res.y.IsValid() || math.IsNaN(res.errNorm):
			reject = true
			h = hTrial * 0.5
			if h < hmin {
				return nil, &dynamics.IntegrationError{
					Reason: dynamics.ErrNonFinite, LastTime: t, LastState: y, Steps: steps,
				}
			}
		case res.errNorm > 1:
			reject = true
			h = hTrial * scaleFor(res.errNorm, st.order(), 1.0)
		}

		if reject {
			sol.Rejected++
			consecutiveRejects++
			if m == Auto && sol.StiffSwitch < 0 && consecutiveRejects >= stiffRejections {
				// The explicit pair keeps failing at shrinking steps:
				// treat the regime as stiff and continue with BDF.
				st, _ = newStepper(BDF, f, cfg)
				sol.StiffSwitch = t
				h = clampStep(hTrial*50, t1-t, cfg.MaxStep)
				consecutiveRejects = 0
			}
			continue
		}

		st.accepted(t, hTrial, y)
		sol.segments = append(sol.segments, segment{t0: t, t1: t + hTrial, eval: res.dense})
		t += hTrial
		y = res.y
		sol.Times = append(sol.Times, t)
		sol.Accepted++
		consecutiveRejects = 0
		h = clampStep(hTrial*scaleFor(res.errNorm, st.order(), maxScale), span, cfg.MaxStep)
	}

	if !y.IsValid() {
		return nil, &dynamics.IntegrationError{
			Reason: dynamics.ErrNonFinite, LastTime: t, LastState: y, Steps: steps,
		}
	}
	sol.final = y
	return sol, nil
}

// scaleFor is the classic PI-free step factor with safety margin.
func scaleFor(errNorm, order, growLimit float64) float64 {
	if errNorm <= 0 {
		return growLimit
	}
	s := safety * math.Pow(errNorm, -1.0/(order+1))
	return math.Min(growLimit, math.Max(minScale, s))
}

func clampStep(h, span, maxStep float64) float64 {
	if maxStep > 0 && h > maxStep {
		h = maxStep
	}
	if h > span {
		h = span
	}
	return h
}

// initialStep picks a starting step from the scaled magnitudes of the
// state and its first two derivatives.
func initialStep(f RHS, t0 float64, y dynamics.State, span, order float64, cfg Settings, sol *Solution) float64 {
	f0 := f(t0, y)
	sol.Evals++
	d0, d1 := 0.0, 0.0
	for i := range y {
		sc := cfg.AbsTol + cfg.RelTol*math.Abs(y[i])
		d0 += (y[i] / sc) * (y[i] / sc)
		d1 += (f0[i] / sc) * (f0[i] / sc)
	}
	n := float64(len(y))
	d0 = math.Sqrt(d0 / n)
	d1 = math.Sqrt(d1 / n)

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	y1 := make(dynamics.State, len(y))
	for i := range y {
		y1[i] = y[i] + h0*f0[i]
	}
	f1 := f(t0+h0, y1)
	sol.Evals++

	d2 := 0.0
	for i := range y {
		sc := cfg.AbsTol + cfg.RelTol*math.Abs(y[i])
		v := (f1[i] - f0[i]) / sc
		d2 += v * v
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if math.Max(d1, d2) <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(order+1))
	}
	return math.Min(100*h0, math.Min(h1, span))
}
