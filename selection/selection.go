// Package selection implements tournament selection and crossover: for each
// output slot, two tournaments of TournamentSize candidates each pick a
// parent by highest score, then the registered crossover strategy writes a
// child into the next generation. Selection and crossover share one
// kernel.Launch pass because they are always invoked together per output
// slot; nothing calls one without the other.
package selection

import (
	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/strategy"
)

// TournamentSize is the number of candidates sampled per parent.
const TournamentSize = 2

// Run selects two parents per output slot by tournament and writes the
// crossover's child into pop.Next(). Reads pop.Current() and pop.Score(),
// consuming the per-individual random strip at stable offsets shared with
// crossover: indices [0, 2*TournamentSize) pick tournament candidates, and
// cx sees the whole strip for its own per-gene draws.
func Run(grid kernel.Grid, pop *population.Population, cx strategy.CrossoverFunc) error {
	size := pop.Size()
	score := pop.Score()
	return kernel.Launch(grid, size, func(i int) {
		strip := pop.RandStrip(i)
		aIdx := tournamentWinner(score, strip[0:TournamentSize], size)
		bIdx := tournamentWinner(score, strip[TournamentSize:2*TournamentSize], size)
		cx(pop.Genome(aIdx), pop.Genome(bIdx), pop.NextGenome(i), strip)
	})
}

// tournamentWinner maps each draw in draws to a candidate index
// (floor(f*size), clamped) and returns the index with the highest score,
// first-seen wins on ties.
func tournamentWinner(score []float32, draws []float32, size int) int {
	best := candidateIndex(draws[0], size)
	bestScore := score[best]
	for _, f := range draws[1:] {
		idx := candidateIndex(f, size)
		if score[idx] > bestScore {
			best = idx
			bestScore = score[idx]
		}
	}
	return best
}

func candidateIndex(f float32, size int) int {
	idx := int(f * float32(size))
	if idx < 0 {
		idx = 0
	}
	if idx >= size {
		idx = size - 1
	}
	return idx
}
