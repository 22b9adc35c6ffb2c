package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/agromech/cuttersim/internal/dynamics"
)

// spinUp is constant angular acceleration: exact solution is a
// quadratic in time, which every method here reproduces to tolerance.
func spinUp(accel float64) RHS {
	return func(t float64, y dynamics.State) dynamics.State {
		return dynamics.State{y[1], accel}
	}
}

// decay is y' = -y with exact solution e^{-t}.
func decay(t float64, y dynamics.State) dynamics.State {
	return dynamics.State{-y[0]}
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMethod(%q) = %q, %v", m, got, err)
		}
	}
	if got, err := ParseMethod("  RK45 "); err != nil || got != RK45 {
		t.Errorf("ParseMethod with spacing and case = %q, %v", got, err)
	}
	_, err := ParseMethod("euler")
	if err == nil {
		t.Fatal("unsupported method accepted")
	}
	var cerr *dynamics.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("error type %T, want *dynamics.ConfigurationError", err)
	}
}

func TestSpinUpAllMethods(t *testing.T) {
	const accel = 2.5
	f := spinUp(accel)
	cfg := DefaultSettings()

	for _, m := range Methods() {
		t.Run(string(m), func(t *testing.T) {
			sol, err := Solve(f, dynamics.State{0, 0}, 0, 2, m, cfg)
			if err != nil {
				t.Fatal(err)
			}
			final := sol.Final()
			wantTheta := 0.5 * accel * 4
			wantOmega := accel * 2
			if math.Abs(final[0]-wantTheta) > 1e-5 {
				t.Errorf("theta = %g, want %g", final[0], wantTheta)
			}
			if math.Abs(final[1]-wantOmega) > 1e-5 {
				t.Errorf("omega = %g, want %g", final[1], wantOmega)
			}
			if sol.Accepted == 0 || sol.Evals == 0 {
				t.Errorf("diagnostics not recorded: %+v", sol)
			}
		})
	}
}

func TestDecayAccuracy(t *testing.T) {
	cfg := DefaultSettings()
	exact := math.Exp(-2)

	tolerances := map[Method]float64{
		RK45:  1e-7,
		RK23:  1e-5,
		GBS8:  1e-7,
		Radau: 1e-6,
		BDF:   1e-4,
		Auto:  1e-7,
	}
	for m, tol := range tolerances {
		t.Run(string(m), func(t *testing.T) {
			sol, err := Solve(decay, dynamics.State{1}, 0, 2, m, cfg)
			if err != nil {
				t.Fatal(err)
			}
			got := sol.Final()[0]
			if math.Abs(got-exact) > tol {
				t.Errorf("y(2) = %.10g, want %.10g (tol %g)", got, exact, tol)
			}
		})
	}
}

func TestDenseOutput(t *testing.T) {
	cfg := DefaultSettings()
	sol, err := Solve(decay, dynamics.State{1}, 0, 3, RK45, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Dense evaluation between accepted steps must track the exact
	// solution, not chords between step endpoints.
	for i := 0; i <= 300; i++ {
		tv := float64(i) * 0.01
		got := sol.Eval(tv)[0]
		want := math.Exp(-tv)
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("Eval(%g) = %.10g, want %.10g", tv, got, want)
		}
	}
}

func TestEvalClampsToSpan(t *testing.T) {
	sol, err := Solve(decay, dynamics.State{1}, 0, 1, RK45, DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if got := sol.Eval(-5)[0]; math.Abs(got-1) > 1e-9 {
		t.Errorf("Eval before span = %g, want 1", got)
	}
	if got, want := sol.Eval(100)[0], sol.Final()[0]; math.Abs(got-want) > 1e-9 {
		t.Errorf("Eval after span = %g, want final %g", got, want)
	}
}

func TestMaxStepHonored(t *testing.T) {
	cfg := DefaultSettings()
	cfg.MaxStep = 0.01
	sol, err := Solve(decay, dynamics.State{1}, 0, 1, RK45, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(sol.Times); i++ {
		if dt := sol.Times[i] - sol.Times[i-1]; dt > cfg.MaxStep*(1+1e-9) {
			t.Fatalf("step %d spans %g, exceeding max step %g", i, dt, cfg.MaxStep)
		}
	}
}

func TestStepBudget(t *testing.T) {
	cfg := DefaultSettings()
	cfg.MaxSteps = 3
	_, err := Solve(decay, dynamics.State{1}, 0, 100, RK45, cfg)
	if err == nil {
		t.Fatal("expected step budget error")
	}
	if !errors.Is(err, dynamics.ErrStepBudget) {
		t.Errorf("error %v does not wrap ErrStepBudget", err)
	}
	var ierr *dynamics.IntegrationError
	if !errors.As(err, &ierr) {
		t.Fatalf("error type %T, want *dynamics.IntegrationError", err)
	}
	if ierr.Steps != cfg.MaxSteps {
		t.Errorf("Steps = %d, want %d", ierr.Steps, cfg.MaxSteps)
	}
	if ierr.LastState == nil {
		t.Error("last accepted state not carried")
	}
}

func TestInvalidInputs(t *testing.T) {
	cfg := DefaultSettings()

	if _, err := Solve(decay, dynamics.State{1}, 1, 1, RK45, cfg); err == nil {
		t.Error("empty span accepted")
	}
	if _, err := Solve(decay, dynamics.State{math.NaN()}, 0, 1, RK45, cfg); !errors.Is(err, dynamics.ErrNonFinite) {
		t.Errorf("NaN initial state: err = %v, want ErrNonFinite", err)
	}
	if _, err := Solve(decay, dynamics.State{1}, 0, 1, Method("dop853"), cfg); err == nil {
		t.Error("unknown method accepted")
	}
}

func TestAutoStaysExplicitOnMildProblem(t *testing.T) {
	sol, err := Solve(decay, dynamics.State{1}, 0, 2, Auto, DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if sol.StiffSwitch >= 0 {
		t.Errorf("auto switched to BDF at t=%g on a mild problem", sol.StiffSwitch)
	}
}

func TestStiffDecay(t *testing.T) {
	// y' = -1000 y over [0, 0.05]: the implicit methods take large
	// steps where the explicit pair would crawl.
	stiff := func(t float64, y dynamics.State) dynamics.State {
		return dynamics.State{-1000 * y[0]}
	}
	for _, m := range []Method{Radau, BDF} {
		t.Run(string(m), func(t *testing.T) {
			sol, err := Solve(stiff, dynamics.State{1}, 0, 0.05, m, DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}
			want := math.Exp(-50)
			if got := sol.Final()[0]; math.Abs(got-want) > 1e-4 {
				t.Errorf("y(0.05) = %g, want %g", got, want)
			}
		})
	}
}

func TestSolveDeterministic(t *testing.T) {
	cfg := DefaultSettings()
	a, err := Solve(spinUp(1.5), dynamics.State{0.1, 0.2}, 0, 3, RK45, cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Solve(spinUp(1.5), dynamics.State{0.1, 0.2}, 0, 3, RK45, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Evals != b.Evals || a.Accepted != b.Accepted || len(a.Times) != len(b.Times) {
		t.Fatal("repeated solves disagree on diagnostics")
	}
	fa, fb := a.Final(), b.Final()
	if fa[0] != fb[0] || fa[1] != fb[1] {
		t.Errorf("repeated solves disagree: %v vs %v", fa, fb)
	}
}
