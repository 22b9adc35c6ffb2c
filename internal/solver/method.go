package solver

import (
	"strings"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// Method names a time-integration scheme.
type Method string

const (
	// RK45 is the adaptive Dormand-Prince 5(4) pair with a fourth-order
	// dense interpolant. The default for non-stiff runs.
	RK45 Method = "rk45"
	// RK23 is the Bogacki-Shampine 3(2) pair, cheaper per step at
	// looser tolerances.
	RK23 Method = "rk23"
	// GBS8 is eighth-order Gragg-Bulirsch-Stoer extrapolation of the
	// modified midpoint rule, for high-accuracy work.
	GBS8 Method = "gbs8"
	// Radau is the three-stage Radau IIA collocation method (order 5),
	// implicit, for stiff regimes.
	Radau Method = "radau"
	// BDF is a variable-step second-order backward differentiation
	// formula, implicit, for stiff regimes.
	BDF Method = "bdf"
	// Auto starts explicit and switches to BDF when the step controller
	// shows stiffness.
	Auto Method = "auto"
)

// Methods lists every supported method name.
func Methods() []Method {
	return []Method{RK45, RK23, GBS8, Radau, BDF, Auto}
}

// ParseMethod maps a configuration string to a Method, failing with a
// ConfigurationError for anything outside the closed set.
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Methods() {
		if m == known {
			return m, nil
		}
	}
	return "", dynamics.Configurationf("unknown integration method %q", name)
}
