package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/agromech/cuttersim/internal/dynamics"
)

const (
	newtonMaxIter = 20
	newtonKappa   = 0.03
)

// jacobian approximates df/dy at (t, y) by forward differences,
// reusing the already-computed f0 = f(t, y).
func jacobian(f RHS, t float64, y, f0 dynamics.State) (*mat.Dense, int) {
	n := len(y)
	j := mat.NewDense(n, n, nil)
	yp := y.Clone()
	evals := 0
	for col := 0; col < n; col++ {
		d := math.Sqrt(machEps) * math.Max(math.Abs(y[col]), 1.0)
		yp[col] = y[col] + d
		fp := f(t, yp)
		evals++
		for row := 0; row < n; row++ {
			j.Set(row, col, (fp[row]-f0[row])/d)
		}
		yp[col] = y[col]
	}
	return j, evals
}

const machEps = 2.220446049250313e-16

// newtonNorm is the scaled RMS of a Newton update, comparable against
// newtonKappa.
func newtonNorm(d []float64, y dynamics.State, rtol, atol float64) float64 {
	n := len(y)
	sum := 0.0
	for i, v := range d {
		sc := atol + rtol*math.Abs(y[i%n])
		sum += (v / sc) * (v / sc)
	}
	return math.Sqrt(sum / float64(len(d)))
}
