// Package strategy is the registry of user-supplied objective, mutation and
// crossover functions. An accelerator-backed engine treats these as
// device-resident function addresses passed through kernel arguments as
// opaque handles. Go has no device-function pointers, so this package gives
// the same "function as an opaque handle" shape two ways: a tag naming a
// registered native Go closure (the always-available path), or a tag naming
// a compiled WASM module executed through wasmer-go (wasm.go) — the module
// bytes themselves are the opaque handle passed around instead of a device
// pointer.
package strategy

import (
	"fmt"
	"sync"
)

// ObjectiveFunc scores one genome. Must be pure: no side effects outside
// its own genome slice.
type ObjectiveFunc func(genome []float32) float32

// MutatorFunc rewrites child in place using its private random strip.
type MutatorFunc func(child, randStrip []float32)

// CrossoverFunc writes a child genome derived from two parents and a
// random strip.
type CrossoverFunc func(parentA, parentB, child, randStrip []float32)

// Registry holds named objective, mutate and crossover strategies. It is
// safe for concurrent use by multiple goroutines.
type Registry struct {
	mu         sync.RWMutex
	objectives map[string]ObjectiveFunc
	mutators   map[string]MutatorFunc
	crossovers map[string]CrossoverFunc
}

// NewRegistry returns a Registry pre-populated with the engine's default
// strategies: "sum" objective, "point-mutation" mutator, and
// "uniform-crossover" crossover.
func NewRegistry() *Registry {
	r := &Registry{
		objectives: make(map[string]ObjectiveFunc),
		mutators:   make(map[string]MutatorFunc),
		crossovers: make(map[string]CrossoverFunc),
	}
	r.objectives["sum"] = SumObjective
	r.mutators["point-mutation"] = PointMutation
	r.crossovers["uniform-crossover"] = UniformCrossover
	return r
}

// RegisterObjective adds or replaces a named objective strategy.
func (r *Registry) RegisterObjective(tag string, fn ObjectiveFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objectives[tag] = fn
}

// RegisterMutator adds or replaces a named mutator strategy.
func (r *Registry) RegisterMutator(tag string, fn MutatorFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutators[tag] = fn
}

// RegisterCrossover adds or replaces a named crossover strategy.
func (r *Registry) RegisterCrossover(tag string, fn CrossoverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crossovers[tag] = fn
}

// Objective resolves a registered objective by tag.
func (r *Registry) Objective(tag string) (ObjectiveFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.objectives[tag]
	if !ok {
		return nil, fmt.Errorf("strategy: no objective registered under %q", tag)
	}
	return fn, nil
}

// Mutator resolves a registered mutator by tag.
func (r *Registry) Mutator(tag string) (MutatorFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.mutators[tag]
	if !ok {
		return nil, fmt.Errorf("strategy: no mutator registered under %q", tag)
	}
	return fn, nil
}

// Crossover resolves a registered crossover by tag.
func (r *Registry) Crossover(tag string) (CrossoverFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.crossovers[tag]
	if !ok {
		return nil, fmt.Errorf("strategy: no crossover registered under %q", tag)
	}
	return fn, nil
}

// SumObjective is the default objective: the sum of all genes.
func SumObjective(genome []float32) float32 {
	var total float32
	for _, g := range genome {
		total += g
	}
	return total
}

// UniformCrossover is the default crossover operator: gene j of the child
// is parentA[j] if randStrip[j] > 0.5, else parentB[j].
func UniformCrossover(parentA, parentB, child, randStrip []float32) {
	for j := range child {
		if randStrip[j] > 0.5 {
			child[j] = parentA[j]
		} else {
			child[j] = parentB[j]
		}
	}
}

// MutationRate is the default per-individual mutation probability.
const MutationRate = 0.01

// PointMutation is the default mutator: with probability
// MutationRate (drawn from randStrip[1]), replaces one gene, chosen by
// randStrip[0], with the value in randStrip[2].
func PointMutation(child, randStrip []float32) {
	if randStrip[1] > MutationRate {
		return
	}
	pos := int(randStrip[0] * float32(len(child)))
	if pos < 0 {
		pos = 0
	}
	if pos >= len(child) {
		pos = len(child) - 1
	}
	child[pos] = randStrip[2]
}
