package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.InputTorque = 275
	cfg.Params.Method = "radau"
	cfg.StabilityThreshold = 0.5
	spec := torque.DefaultTerrain()
	cfg.GrassTorque = &spec

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Params != cfg.Params {
		t.Errorf("params mismatch:\n got %+v\nwant %+v", got.Params, cfg.Params)
	}
	if got.StabilityThreshold != 0.5 {
		t.Errorf("StabilityThreshold = %g, want 0.5", got.StabilityThreshold)
	}
	if got.GrassTorque == nil || got.GrassTorque.Kind != torque.CompositeTerrain {
		t.Fatalf("grass torque not preserved: %+v", got.GrassTorque)
	}
	if len(got.GrassTorque.Terms) != len(spec.Terms) {
		t.Errorf("composite terms = %d, want %d", len(got.GrassTorque.Terms), len(spec.Terms))
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("params:\n  input_torque: 333\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.InputTorque != 333 {
		t.Errorf("InputTorque = %g, want 333", cfg.Params.InputTorque)
	}
	if cfg.Params.Radius != params.Defaults().Radius {
		t.Errorf("Radius = %g, want default", cfg.Params.Radius)
	}
	if cfg.StabilityThreshold != metrics.DefaultStabilityThreshold {
		t.Errorf("StabilityThreshold = %g, want default", cfg.StabilityThreshold)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file loaded")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q listed but not buildable", name)
		}
		if _, err := params.Validate(cfg.Params); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
		if cfg.GrassTorque != nil {
			if _, err := torque.Resolve(*cfg.GrassTorque); err != nil {
				t.Errorf("preset %q grass torque: %v", name, err)
			}
		}
	}
}

func TestGetPresetUnknown(t *testing.T) {
	if GetPreset("bermuda") != nil {
		t.Fatal("unknown preset returned a config")
	}
}

func TestPresetsReturnFreshCopies(t *testing.T) {
	a := GetPreset("default")
	a.Params.Radius = 99
	b := GetPreset("default")
	if b.Params.Radius == 99 {
		t.Fatal("presets share state between calls")
	}
}

func TestAnalyzerOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StabilityThreshold = 0.9
	cfg.TailFraction = 0.5

	a := cfg.Analyzer()
	if a.StabilityThreshold != 0.9 || a.TailFraction != 0.5 {
		t.Errorf("analyzer = %+v, want overrides applied", a)
	}

	cfg.StabilityThreshold = 0
	if got := cfg.Analyzer().StabilityThreshold; got != metrics.DefaultStabilityThreshold {
		t.Errorf("zero threshold gave %g, want default", got)
	}
}
