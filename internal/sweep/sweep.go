// Package sweep runs the engine repeatedly while one parameter field
// walks a range, collecting a report per value.
package sweep

import (
	"github.com/agromech/cuttersim/internal/cache"
	"github.com/agromech/cuttersim/internal/dynamics"
	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/metrics"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

// Range describes the swept field: Steps evenly spaced values over
// [From, To], endpoints included.
type Range struct {
	Field string  `yaml:"field" json:"field"`
	From  float64 `yaml:"from" json:"from"`
	To    float64 `yaml:"to" json:"to"`
	Steps int     `yaml:"steps" json:"steps"`
}

// Values expands the range into its sample points.
func (r Range) Values() []float64 {
	if r.Steps <= 1 {
		return []float64{r.From}
	}
	vals := make([]float64, r.Steps)
	dv := (r.To - r.From) / float64(r.Steps-1)
	for i := range vals {
		vals[i] = r.From + float64(i)*dv
	}
	vals[r.Steps-1] = r.To
	return vals
}

// Point is the outcome at one swept value.
type Point struct {
	Value  float64                  `json:"value"`
	Result *engine.SimulationResult `json:"-"`
	Report metrics.Report           `json:"report"`
}

// Outcome is a finished sweep.
type Outcome struct {
	Field  string  `json:"field"`
	Points []Point `json:"points"`
}

// Sweeper drives the runs. Runs go through a memoizing cache so a
// sweep whose range revisits a value does not pay twice.
type Sweeper struct {
	Base     params.ParameterSet
	Grass    *torque.Spec
	Input    *torque.Spec
	Analyzer *metrics.Analyzer

	runner *cache.Runner
}

func New(base params.ParameterSet) *Sweeper {
	return &Sweeper{
		Base:     base,
		Analyzer: metrics.New(),
		runner:   cache.New(),
	}
}

// Run sweeps the named field across the range. The base set is never
// modified; each value builds a fresh validated set. The first failing
// value aborts the sweep with its error.
func (s *Sweeper) Run(r Range) (*Outcome, error) {
	if r.Field == "" {
		return nil, dynamics.Configurationf("sweep field name is required")
	}
	if r.Steps < 1 {
		return nil, dynamics.Configurationf("sweep steps must be at least 1, got %d", r.Steps)
	}

	values := r.Values()
	out := &Outcome{
		Field:  r.Field,
		Points: make([]Point, 0, len(values)),
	}
	for _, v := range values {
		p, err := params.BuildFrom(s.Base, map[string]any{r.Field: v})
		if err != nil {
			return nil, err
		}
		res, err := s.runner.Run(p, s.Grass, s.Input)
		if err != nil {
			return nil, err
		}
		out.Points = append(out.Points, Point{
			Value:  v,
			Result: res,
			Report: s.Analyzer.Analyze(res),
		})
	}
	return out, nil
}

// Best returns the point maximizing the given figure, e.g. efficiency.
func (o *Outcome) Best(figure func(metrics.Report) float64) Point {
	best := o.Points[0]
	for _, pt := range o.Points[1:] {
		if figure(pt.Report) > figure(best.Report) {
			best = pt
		}
	}
	return best
}
