package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallelga/pga/strategy"
)

func TestNewRegistry_DefaultsPreregistered(t *testing.T) {
	r := strategy.NewRegistry()

	_, err := r.Objective("sum")
	require.NoError(t, err)
	_, err = r.Mutator("point-mutation")
	require.NoError(t, err)
	_, err = r.Crossover("uniform-crossover")
	require.NoError(t, err)
}

func TestRegistry_UnknownTagErrors(t *testing.T) {
	r := strategy.NewRegistry()

	_, err := r.Objective("does-not-exist")
	assert.Error(t, err)
}

func TestRegistry_RegisterOverridesLookup(t *testing.T) {
	r := strategy.NewRegistry()
	r.RegisterObjective("constant-one", func(genome []float32) float32 { return 1 })

	fn, err := r.Objective("constant-one")
	require.NoError(t, err)
	assert.Equal(t, float32(1), fn([]float32{5, 5, 5, 5}))
}

func TestSumObjective(t *testing.T) {
	assert.Equal(t, float32(10), strategy.SumObjective([]float32{1, 2, 3, 4}))
	assert.Equal(t, float32(0), strategy.SumObjective([]float32{}))
}

func TestUniformCrossover_PicksPerGeneParent(t *testing.T) {
	a := []float32{1, 1, 1, 1}
	b := []float32{2, 2, 2, 2}
	child := make([]float32, 4)
	rand := []float32{0.9, 0.1, 0.9, 0.1}

	strategy.UniformCrossover(a, b, child, rand)

	assert.Equal(t, []float32{1, 2, 1, 2}, child)
}

func TestPointMutation_FiresBelowRate(t *testing.T) {
	child := []float32{0, 0, 0, 0}
	rand := []float32{0.5, 0.0, 9}

	strategy.PointMutation(child, rand)

	assert.Equal(t, float32(9), child[2])
	for i, v := range child {
		if i != 2 {
			assert.Equal(t, float32(0), v)
		}
	}
}

func TestPointMutation_SkipsAboveRate(t *testing.T) {
	child := []float32{0, 0, 0, 0}
	rand := []float32{0.5, 0.5, 9}

	strategy.PointMutation(child, rand)

	assert.Equal(t, []float32{0, 0, 0, 0}, child)
}
