package voyage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/voyage"
)

var fullGear = voyage.Gear{Tier: 0, Condition: voyage.MaxCondition}

func TestNew_DrawsBands(t *testing.T) {
	cfg := voyage.DefaultConfig()
	// empty, reward, big, hazard, then empties
	src := &entropy.Script{Floats: []float64{0.1, 0.6, 0.85, 0.95}}
	s := voyage.New(src, cfg, fullGear)

	require.Len(t, s.Tiles, 9)
	assert.Equal(t, voyage.Empty, s.Tiles[0].Content)
	assert.Equal(t, voyage.Reward, s.Tiles[1].Content)
	assert.Equal(t, 40, s.Tiles[1].Value)
	assert.Equal(t, voyage.BigReward, s.Tiles[2].Content)
	assert.Equal(t, 150, s.Tiles[2].Value)
	assert.Equal(t, voyage.Hazard, s.Tiles[3].Content)
	assert.Equal(t, -60, s.Tiles[3].Value)
	assert.True(t, s.Active)
	assert.Zero(t, s.Accumulated)
}

func TestGear_ScalesRewards(t *testing.T) {
	cfg := voyage.DefaultConfig()
	hull := voyage.New(&entropy.Script{Floats: []float64{0.6}}, cfg, voyage.Gear{Tier: 2, Condition: voyage.MaxCondition})
	assert.Equal(t, 60, hull.Tiles[0].Value) // 40 * 1.5

	worn := voyage.New(&entropy.Script{Floats: []float64{0.6}}, cfg, voyage.Gear{Tier: 0, Condition: 0})
	assert.Equal(t, 20, worn.Tiles[0].Value)

	hazard := voyage.New(&entropy.Script{Floats: []float64{0.99}}, cfg, voyage.Gear{Tier: 3, Condition: 0})
	assert.Equal(t, -60, hazard.Tiles[0].Value, "hazards do not scale")
}

func TestReveal_AccumulatesRevealedSum(t *testing.T) {
	cfg := voyage.DefaultConfig()
	s := voyage.New(entropy.New(5), cfg, fullGear)

	for _, i := range []int{0, 4, 8, 4} {
		s.Reveal(i)
		assert.Equal(t, s.Sum(), s.Accumulated)
	}
	assert.Equal(t, 3, s.Revealed())

	_, ok := s.Reveal(4)
	assert.False(t, ok, "second reveal is a no-op")
	_, ok = s.Reveal(9)
	assert.False(t, ok)
	_, ok = s.Reveal(-1)
	assert.False(t, ok)
}

func TestReveal_HazardWearsEquipment(t *testing.T) {
	s := voyage.New(&entropy.Script{Floats: []float64{0.99}}, voyage.DefaultConfig(), fullGear)
	tile, ok := s.Reveal(0)
	require.True(t, ok)
	assert.Equal(t, voyage.Hazard, tile.Content)
	assert.Equal(t, -60, s.Accumulated)
	assert.Equal(t, 15, s.Wear)
}

func TestClose_IsIdempotent(t *testing.T) {
	s := voyage.New(&entropy.Script{Floats: []float64{0.6, 0.6}}, voyage.DefaultConfig(), fullGear)
	s.Reveal(0)
	s.Reveal(1)

	v, _, ok := s.Close()
	require.True(t, ok)
	assert.Equal(t, 80, v)

	v, _, ok = s.Close()
	assert.False(t, ok)
	assert.Zero(t, v)

	_, ok = s.Reveal(2)
	assert.False(t, ok, "closed sessions reject reveals")
}

func TestMasked_HidesUnrevealed(t *testing.T) {
	s := voyage.New(&entropy.Script{Floats: []float64{0.95, 0.95}}, voyage.DefaultConfig(), fullGear)
	s.Reveal(0)
	m := s.Masked()
	assert.Equal(t, voyage.Hazard, m.Tiles[0].Content)
	assert.Equal(t, voyage.Tile{}, m.Tiles[1])
}

func TestQuickCatch_TerminatesOnConstantSource(t *testing.T) {
	cfg := voyage.DefaultConfig()
	v, wear := voyage.QuickCatch(&entropy.Script{}, cfg, fullGear)
	assert.Zero(t, v, "all-zero draws are empty tiles")
	assert.Zero(t, wear)

	v, _ = voyage.QuickCatch(entropy.New(9), cfg, fullGear)
	assert.GreaterOrEqual(t, v, 3*cfg.HazardValue)
	assert.LessOrEqual(t, v, 3*cfg.BigRewardValue)
}

func TestOffers_FilterByTierAndCondition(t *testing.T) {
	cat := voyage.Catalog()
	offers := voyage.Offers(cat, 1, voyage.MaxCondition)
	for _, o := range offers {
		assert.NotEqual(t, "Net Repair", o.Name)
		assert.Greater(t, o.BoatTier, 1)
	}
	assert.Len(t, voyage.Offers(cat, 3, 50), 1)
	assert.Equal(t, []int{60, 150, 300, 600}, voyage.Costs(voyage.Offers(cat, 0, 0)))
}
