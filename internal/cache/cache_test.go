package cache

import (
	"testing"

	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

func quickParams() params.ParameterSet {
	p := params.Defaults()
	p.Duration = 1.0
	p.Points = 50
	return p
}

func TestRepeatHitsCache(t *testing.T) {
	r := New()
	p := quickParams()

	a, err := r.Run(p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Run(p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("repeated run returned a different result pointer")
	}
	hits, misses := r.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = (%d hits, %d misses), want (1, 1)", hits, misses)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestDistinctParamsMiss(t *testing.T) {
	r := New()
	p := quickParams()
	if _, err := r.Run(p, nil, nil); err != nil {
		t.Fatal(err)
	}

	q := p
	q.InputTorque = 300
	if _, err := r.Run(q, nil, nil); err != nil {
		t.Fatal(err)
	}
	if hits, misses := r.Stats(); hits != 0 || misses != 2 {
		t.Errorf("stats = (%d hits, %d misses), want (0, 2)", hits, misses)
	}
}

func TestTorqueSpecPartOfKey(t *testing.T) {
	r := New()
	p := quickParams()

	plain, err := r.Run(p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	spec := torque.Spec{Kind: torque.Constant, Base: 5}
	grassy, err := r.Run(p, &spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if plain == grassy {
		t.Error("different grass specs shared a cache entry")
	}

	changed := spec
	changed.Base = 6
	if _, err := r.Run(p, &changed, nil); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3 distinct entries", r.Len())
	}
}

func TestErrorsNotCached(t *testing.T) {
	r := New()
	p := quickParams()
	p.Radius = -1

	if _, err := r.Run(p, nil, nil); err == nil {
		t.Fatal("invalid parameters accepted")
	}
	if r.Len() != 0 {
		t.Errorf("failed run cached: Len = %d", r.Len())
	}
}

func TestClear(t *testing.T) {
	r := New()
	if _, err := r.Run(quickParams(), nil, nil); err != nil {
		t.Fatal(err)
	}
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", r.Len())
	}
}
