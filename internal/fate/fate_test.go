package fate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/fate"
)

func TestDraw_DistinctOptions(t *testing.T) {
	r := fate.NewResolver(fate.DefaultCatalog(), 0)
	src := entropy.New(11)
	for i := 0; i < 200; i++ {
		menu := r.Draw(src, 3)
		require.Len(t, menu, 3)
		seen := map[string]bool{}
		for _, o := range menu {
			assert.False(t, seen[o.Label], "duplicate %s", o.Label)
			seen[o.Label] = true
		}
	}
}

func TestDraw_WeightedPick(t *testing.T) {
	r := fate.NewResolver(fate.DefaultCatalog(), 0)
	// 0 lands in the first template; after removing it, 0 lands in the second.
	menu := r.Draw(&entropy.Script{Ints: []int{0, 0}}, 2)
	require.Len(t, menu, 2)
	assert.Equal(t, "Herring Shoal", menu[0].Label)
	assert.Equal(t, "Torn Net", menu[1].Label)
}

func TestDraw_SmallPoolAndFallback(t *testing.T) {
	one := fate.NewResolver([]fate.Outcome{{Label: "Only", Weight: 0}}, 0)
	menu := one.Draw(entropy.New(1), 3)
	require.Len(t, menu, 1)
	assert.Equal(t, "Only", menu[0].Label)

	empty := fate.NewResolver(nil, 0)
	assert.Equal(t, []fate.Outcome{fate.Fallback}, empty.Draw(entropy.New(1), 3))
}

func TestAdd_TrimsOldestGenerated(t *testing.T) {
	base := fate.DefaultCatalog()
	r := fate.NewResolver(base, 2)
	r.Add(fate.Outcome{Label: "A"}, fate.Outcome{Label: "B"})
	r.Add(fate.Outcome{Label: "C"})

	cat := r.Catalog()
	require.Len(t, cat, len(base)+2)
	assert.Equal(t, "B", cat[len(cat)-2].Label)
	assert.Equal(t, "C", cat[len(cat)-1].Label)
	assert.True(t, cat[len(cat)-1].Generated)
	assert.False(t, cat[0].Generated)
}
