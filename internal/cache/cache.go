// Package cache memoizes simulation runs keyed by their full input.
// The engine itself never caches; wrap it explicitly when repeated
// identical runs are expected, e.g. during parameter sweeps.
package cache

import (
	"hash/fnv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/agromech/cuttersim/internal/engine"
	"github.com/agromech/cuttersim/internal/params"
	"github.com/agromech/cuttersim/internal/torque"
)

// Runner runs simulations, returning cached results for inputs seen
// before. Results are shared, not copied; treat them as read-only.
type Runner struct {
	mu      sync.Mutex
	results map[uint64]*engine.SimulationResult

	hits   int
	misses int
}

func New() *Runner {
	return &Runner{results: make(map[uint64]*engine.SimulationResult)}
}

// Run returns the cached result for this exact input when present,
// running the engine otherwise. Errors are never cached.
func (r *Runner) Run(p params.ParameterSet, grass, input *torque.Spec) (*engine.SimulationResult, error) {
	key := runKey(p, grass, input)

	r.mu.Lock()
	if res, ok := r.results[key]; ok {
		r.hits++
		r.mu.Unlock()
		return res, nil
	}
	r.mu.Unlock()

	var opts []engine.Option
	if grass != nil {
		opts = append(opts, engine.WithGrassTorque(*grass))
	}
	if input != nil {
		opts = append(opts, engine.WithInputTorque(*input))
	}
	res, err := engine.Run(p, opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.results[key] = res
	r.misses++
	r.mu.Unlock()
	return res, nil
}

// Stats reports cache hits and misses since construction.
func (r *Runner) Stats() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

// Len is the number of distinct cached runs.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Clear drops every cached result.
func (r *Runner) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = make(map[uint64]*engine.SimulationResult)
}

// runKey folds the parameter hash with a digest of the torque specs.
// Specs are hashed through their YAML form, which covers nested
// composite terms without a second walker.
func runKey(p params.ParameterSet, grass, input *torque.Spec) uint64 {
	h := fnv.New64a()

	var buf [8]byte
	ph := p.Hash()
	for i := 0; i < 8; i++ {
		buf[i] = byte(ph >> (8 * i))
	}
	h.Write(buf[:])

	writeSpec := func(tag byte, spec *torque.Spec) {
		h.Write([]byte{tag})
		if spec == nil {
			return
		}
		data, err := yaml.Marshal(spec)
		if err != nil {
			return
		}
		h.Write(data)
	}
	writeSpec('g', grass)
	writeSpec('i', input)
	return h.Sum64()
}
