package population_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallelga/pga/population"
	"github.com/parallelga/pga/randsrc"
)

func TestCreate_RejectsShortGenome(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	_, err := population.Create(10, population.MinGenomeLength-1, population.RandomInit, rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, population.ErrGenomeTooShort))
}

func TestCreate_RejectsNonPositiveSize(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	_, err := population.Create(0, population.MinGenomeLength, population.RandomInit, rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, population.ErrAlloc))
}

func TestCreate_AllocatesExpectedBufferShapes(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(10, 6, population.RandomInit, rng)
	require.NoError(t, err)

	assert.Equal(t, 10, pop.Size())
	assert.Equal(t, 6, pop.GenomeLen())
	assert.Len(t, pop.Current(), 60)
	assert.Len(t, pop.Next(), 60)
	assert.Len(t, pop.Score(), 10)
	assert.Len(t, pop.Rand(), 60)
}

func TestGenome_SlicesDistinctIndividuals(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(4, 4, population.RandomInit, rng)
	require.NoError(t, err)

	g0 := pop.Genome(0)
	g1 := pop.Genome(1)
	require.Len(t, g0, 4)
	require.Len(t, g1, 4)

	g0[0] = 99
	assert.NotEqual(t, g0[0], g1[0])
}

func TestSwap_ExchangesBuffersWithoutCopying(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(4, 4, population.RandomInit, rng)
	require.NoError(t, err)

	pop.NextGenome(0)[0] = 123

	beforeCurrent := pop.Current()
	beforeNext := pop.Next()
	pop.Swap()

	assert.Equal(t, beforeNext, pop.Current())
	assert.Equal(t, beforeCurrent, pop.Next())
	assert.Same(t, &beforeNext[0], &pop.Current()[0])
	assert.Same(t, &beforeCurrent[0], &pop.Next()[0])
	assert.Equal(t, float32(123), pop.Current()[0])
}

func TestRefreshRand_FillsEntireStrip(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(3, 4, population.RandomInit, rng)
	require.NoError(t, err)

	for i := range pop.Rand() {
		pop.Rand()[i] = -1
	}
	pop.RefreshRand(rng)

	for i, v := range pop.Rand() {
		assert.NotEqualf(t, float32(-1), v, "rand[%d] not refreshed", i)
	}
}

func TestRandStrip_MatchesGenomeLen(t *testing.T) {
	rng := randsrc.NewSeeded(1)
	pop, err := population.Create(5, 8, population.RandomInit, rng)
	require.NoError(t, err)

	for i := 0; i < pop.Size(); i++ {
		assert.Len(t, pop.RandStrip(i), 8)
	}
}
