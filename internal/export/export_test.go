package export

import (
	"math"
	"strings"
	"testing"

	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
)

func runOnce(t *testing.T) (*engine.SimulationResult, metrics.Report) {
	t.Helper()
	p := params.Defaults()
	p.Duration = 1.0
	p.Points = 50
	res, err := engine.Run(p)
	if err != nil {
		t.Fatal(err)
	}
	return res, metrics.New().Analyze(res)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	res, report := runOnce(t)

	runID, err := store.Save(res, report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(runID, "cutter_") {
		t.Errorf("run ID %q lacks prefix", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != runID {
		t.Errorf("ID = %q, want %q", meta.ID, runID)
	}
	if meta.Params != res.Params {
		t.Errorf("params mismatch:\n got %+v\nwant %+v", meta.Params, res.Params)
	}
	if meta.Method != string(res.Method) {
		t.Errorf("method = %q, want %q", meta.Method, res.Method)
	}
	if math.Abs(meta.Report.Efficiency-report.Efficiency) > 1e-12 {
		t.Errorf("efficiency = %g, want %g", meta.Report.Efficiency, report.Efficiency)
	}
	if meta.Evals != res.Evals || meta.Accepted != res.Accepted {
		t.Errorf("diagnostics mismatch: %+v", meta)
	}
}

func TestLoadSeries(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	res, report := runOnce(t)

	runID, err := store.Save(res, report)
	if err != nil {
		t.Fatal(err)
	}
	cols, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range seriesHeader {
		if len(cols[name]) != len(res.Times) {
			t.Fatalf("column %s has %d rows, want %d", name, len(cols[name]), len(res.Times))
		}
	}
	for i := range res.Times {
		if math.Abs(cols["time"][i]-res.Times[i]) > 1e-9 {
			t.Fatalf("time[%d] = %g, want %g", i, cols["time"][i], res.Times[i])
		}
		if math.Abs(cols["omega"][i]-res.Omegas[i]) > 1e-6*(1+math.Abs(res.Omegas[i])) {
			t.Fatalf("omega[%d] = %g, want %g", i, cols["omega"][i], res.Omegas[i])
		}
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("fresh store lists %d runs", len(runs))
	}

	res, report := runOnce(t)
	if _, err := store.Save(res, report); err != nil {
		t.Fatal(err)
	}
	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	store := New("/nonexistent/cuttersim-test")
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("missing dir listed %d runs", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("cutter_0"); err == nil {
		t.Fatal("unknown run loaded")
	}
	if _, err := store.LoadSeries("cutter_0"); err == nil {
		t.Fatal("unknown series loaded")
	}
}
