package entropy_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/entropy"
)

func TestRollDie_UniformOverLargeSample(t *testing.T) {
	src := entropy.New(7)
	const n = 60000
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		v := entropy.RollDie(src)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
		counts[v]++
	}

	// Chi-square with 5 degrees of freedom; 20.52 is the 0.999 critical value.
	expected := float64(n) / 6
	chi := 0.0
	for face := 1; face <= 6; face++ {
		d := float64(counts[face]) - expected
		chi += d * d / expected
	}
	assert.Less(t, chi, 20.52)
	assert.Len(t, counts, 6)
}

func TestNew_SameSeedReplays(t *testing.T) {
	a := entropy.New(99)
	b := entropy.New(99)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, int64(99), a.Seed())
}

func TestResume_ContinuesSequence(t *testing.T) {
	a := entropy.New(42)
	for i := 0; i < 37; i++ {
		a.Float64()
		a.Intn(6)
	}
	b := entropy.Resume(a.Seed(), a.Draws())
	assert.Equal(t, a.Draws(), b.Draws())
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestBetween_StaysInBand(t *testing.T) {
	src := entropy.New(3)
	for i := 0; i < 1000; i++ {
		v := entropy.Between(src, 0.8, 1.2)
		assert.GreaterOrEqual(t, v, 0.8)
		assert.Less(t, v, 1.2)
	}
}

func TestScript_ReplaysThenFallsBack(t *testing.T) {
	s := entropy.Dice(4, 6)
	assert.Equal(t, 4, entropy.RollDie(s))
	assert.Equal(t, 6, entropy.RollDie(s))
	assert.Equal(t, 1, entropy.RollDie(s), "empty script returns zero draws")

	s = &entropy.Script{Floats: []float64{0.25}, Fallback: entropy.New(1)}
	assert.Equal(t, 0.25, s.Float64())
	v := s.Float64()
	assert.False(t, math.IsNaN(v))
	assert.Less(t, v, 1.0)
}

func TestCryptoSeed_NonZero(t *testing.T) {
	assert.NotZero(t, entropy.CryptoSeed())
}
