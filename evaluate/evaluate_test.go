package evaluate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallelga/pga/evaluate"
	"github.com/parallelga/pga/kernel"
	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/randsrc"
	"github.com/parallelga/pga/strategy"
)

func TestRun_WritesScorePerIndividual(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(6, 4, population.RandomInit, rng)
	require.NoError(t, err)

	for i := 0; i < pop.Size(); i++ {
		g := pop.Genome(i)
		for j := range g {
			g[j] = float32(i)
		}
	}

	grid := kernel.Grid{Blocks: 3, Threads: 1}
	err = evaluate.Run(grid, pop, strategy.SumObjective)
	require.NoError(t, err)

	for i, s := range pop.Score() {
		assert.Equal(t, float32(i*4), s)
	}
}
