package solver

import (
	"github.com/agromech/cuttersim/internal/dynamics"
)

// Substep counts for the extrapolation tableau. Four even stages of
// the modified midpoint rule extrapolate to order eight.
var gbsSteps = [4]int{2, 4, 6, 8}

// gbs8 is Gragg-Bulirsch-Stoer extrapolation at fixed order eight.
// The midpoint rule's error expansion contains only even powers of
// the substep, so each tableau column gains two orders.
type gbs8 struct {
	f   RHS
	cfg Settings
}

func (g *gbs8) order() float64 { return 7 }

func (g *gbs8) accepted(t, h float64, y dynamics.State) {}

func (g *gbs8) step(t float64, y dynamics.State, h float64) (stepResult, error) {
	n := len(y)
	f0 := g.f(t, y)
	evals := 1

	// T[i][j]: entry of the extrapolation tableau, j <= i.
	var tab [4][4]dynamics.State
	for i, steps := range gbsSteps {
		tab[i][0] = g.midpoint(t, y, f0, h, steps)
		evals += steps // f0 is shared, plus the closing evaluation
		for j := 1; j <= i; j++ {
			ni := float64(gbsSteps[i])
			nij := float64(gbsSteps[i-j])
			den := (ni/nij)*(ni/nij) - 1
			cur := make(dynamics.State, n)
			for k := 0; k < n; k++ {
				cur[k] = tab[i][j-1][k] + (tab[i][j-1][k]-tab[i-1][j-1][k])/den
			}
			tab[i][j] = cur
		}
	}

	yNew := tab[3][3]
	e := make(dynamics.State, n)
	for k := 0; k < n; k++ {
		e[k] = tab[3][3][k] - tab[3][2][k]
	}

	f1 := g.f(t+h, yNew)
	evals++

	return stepResult{
		y:       yNew,
		errNorm: errNorm(e, y, yNew, g.cfg.RelTol, g.cfg.AbsTol),
		dense:   hermite(t, h, y, yNew, f0, f1),
		evals:   evals,
	}, nil
}

// midpoint runs the modified (Gragg-smoothed) midpoint rule with the
// given number of substeps across [t, t+h].
func (g *gbs8) midpoint(t float64, y, f0 dynamics.State, h float64, steps int) dynamics.State {
	n := len(y)
	hs := h / float64(steps)

	prev := y.Clone()
	cur := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		cur[i] = y[i] + hs*f0[i]
	}

	for m := 1; m < steps; m++ {
		fm := g.f(t+float64(m)*hs, cur)
		next := make(dynamics.State, n)
		for i := 0; i < n; i++ {
			next[i] = prev[i] + 2*hs*fm[i]
		}
		prev, cur = cur, next
	}

	fEnd := g.f(t+h, cur)
	out := make(dynamics.State, n)
	for i := 0; i < n; i++ {
		out[i] = 0.5 * (cur[i] + prev[i] + hs*fEnd[i])
	}
	return out
}
