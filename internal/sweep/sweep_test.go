package sweep

import (
	"math"
	"testing"

	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
)

func quickBase() params.ParameterSet {
	p := params.Defaults()
	p.Duration = 1.0
	p.Points = 50
	return p
}

func TestRangeValues(t *testing.T) {
	r := Range{Field: "input_torque", From: 100, To: 300, Steps: 5}
	got := r.Values()
	want := []float64{100, 150, 200, 250, 300}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("values[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestRangeSingleStep(t *testing.T) {
	got := Range{Field: "radius", From: 0.5, To: 0.9, Steps: 1}.Values()
	if len(got) != 1 || got[0] != 0.5 {
		t.Errorf("single-step values = %v, want [0.5]", got)
	}
}

func TestSweepTorque(t *testing.T) {
	s := New(quickBase())
	out, err := s.Run(Range{Field: "input_torque", From: 100, To: 300, Steps: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out.Field != "input_torque" {
		t.Errorf("Field = %q", out.Field)
	}
	if len(out.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(out.Points))
	}

	// More drive torque spins the head faster over the same second.
	for i := 1; i < len(out.Points); i++ {
		prev, cur := out.Points[i-1], out.Points[i]
		if cur.Result.FinalOmega() <= prev.Result.FinalOmega() {
			t.Errorf("final omega at %g N·m (%g) not above %g N·m (%g)",
				cur.Value, cur.Result.FinalOmega(), prev.Value, prev.Result.FinalOmega())
		}
	}
	for _, pt := range out.Points {
		if pt.Result.Params.InputTorque != pt.Value {
			t.Errorf("point at %g ran with torque %g", pt.Value, pt.Result.Params.InputTorque)
		}
	}
}

func TestSweepLeavesBaseUntouched(t *testing.T) {
	base := quickBase()
	s := New(base)
	if _, err := s.Run(Range{Field: "total_mass", From: 5, To: 20, Steps: 2}); err != nil {
		t.Fatal(err)
	}
	if s.Base != base {
		t.Error("sweep mutated the base parameter set")
	}
}

func TestSweepErrors(t *testing.T) {
	s := New(quickBase())

	if _, err := s.Run(Range{From: 1, To: 2, Steps: 2}); err == nil {
		t.Error("missing field accepted")
	}
	if _, err := s.Run(Range{Field: "radius", From: 0.1, To: 0.5, Steps: 0}); err == nil {
		t.Error("zero steps accepted")
	}
	if _, err := s.Run(Range{Field: "warp_factor", From: 1, To: 2, Steps: 2}); err == nil {
		t.Error("unknown field accepted")
	}
	// A range that walks outside the physical bounds fails on the
	// offending value.
	if _, err := s.Run(Range{Field: "radius", From: 0.5, To: 50, Steps: 3}); err == nil {
		t.Error("out-of-bounds value accepted")
	}
}

func TestBest(t *testing.T) {
	s := New(quickBase())
	out, err := s.Run(Range{Field: "input_torque", From: 100, To: 300, Steps: 3})
	if err != nil {
		t.Fatal(err)
	}
	best := out.Best(func(r metrics.Report) float64 { return r.Efficiency })
	for _, pt := range out.Points {
		if pt.Report.Efficiency > best.Report.Efficiency {
			t.Errorf("Best missed %g (eff %g)", pt.Value, pt.Report.Efficiency)
		}
	}
}
