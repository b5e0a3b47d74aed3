package randsrc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parallelga/pga/randsrc"
)

func TestFill_RangeAndLength(t *testing.T) {
	src := randsrc.NewSeeded(1)
	buf := make([]float32, 256)
	src.Fill(buf)

	for i, v := range buf {
		assert.GreaterOrEqualf(t, v, float32(0), "buf[%d] below range", i)
		assert.Lessf(t, v, float32(1), "buf[%d] above range", i)
	}
}

func TestNewSeeded_Deterministic(t *testing.T) {
	a := randsrc.NewSeeded(42)
	b := randsrc.NewSeeded(42)

	bufA := make([]float32, 16)
	bufB := make([]float32, 16)
	a.Fill(bufA)
	b.Fill(bufB)

	assert.Equal(t, bufA, bufB)
}

func TestNewSeeded_DifferentSeedsDiverge(t *testing.T) {
	a := randsrc.NewSeeded(1)
	b := randsrc.NewSeeded(2)

	bufA := make([]float32, 32)
	bufB := make([]float32, 32)
	a.Fill(bufA)
	b.Fill(bufB)

	assert.NotEqual(t, bufA, bufB)
}

func TestIntN_WithinBounds(t *testing.T) {
	src := randsrc.NewSeeded(7)
	for i := 0; i < 1000; i++ {
		n := src.IntN(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
}
