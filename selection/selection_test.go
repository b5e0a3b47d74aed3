package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/randsrc"
	"github.com/parallelga/pga/selection"
	"github.com/parallelga/pga/strategy"
)

func TestRun_ChildLengthMatchesGenomeLen(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(8, 6, population.RandomInit, rng)
	require.NoError(t, err)

	copy(pop.Score(), []float32{1, 2, 3, 4, 5, 6, 7, 8})
	pop.RefreshRand(rng)

	grid := kernel.Grid{Blocks: 4, Threads: 1}
	err = selection.Run(grid, pop, strategy.UniformCrossover)
	require.NoError(t, err)

	for i := 0; i < pop.Size(); i++ {
		assert.Len(t, pop.NextGenome(i), 6)
	}
}

func TestRun_TournamentAlwaysPicksHighestScoringCandidate(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	size := 4
	pop, err := population.Create(size, 4, population.RandomInit, rng)
	require.NoError(t, err)

	// index 3 has the highest score by a wide margin, so any tournament
	// draw that lands on it must win.
	copy(pop.Score(), []float32{0, 0, 0, 1000})
	for i := 0; i < size; i++ {
		g := pop.Genome(i)
		for j := range g {
			g[j] = float32(i)
		}
	}

	// Force both tournaments in every slot to draw candidate 3.
	for i := 0; i < size; i++ {
		strip := pop.RandStrip(i)
		for j := range strip {
			strip[j] = 0.99
		}
	}

	identityCrossover := func(parentA, parentB, child, randStrip []float32) {
		copy(child, parentA)
	}

	grid := kernel.Grid{Blocks: 4, Threads: 1}
	err = selection.Run(grid, pop, identityCrossover)
	require.NoError(t, err)

	for i := 0; i < size; i++ {
		for _, g := range pop.NextGenome(i) {
			assert.Equal(t, float32(3), g)
		}
	}
}
