package agents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/fate"
	"github.com/talgya/maigreifinn/internal/market"
)

var boat = board.Property{Price: 100, BaseRent: 20, Category: board.CategoryBoat}

func TestDecidePurchase_Thresholds(t *testing.T) {
	mkt := market.Initial()
	cases := []struct {
		name  string
		actor agents.Actor
		want  agents.Decision
	}{
		{"aggressive buys thin", agents.Actor{Money: 110, Archetype: agents.ArchAggressive}, agents.Buy},
		{"balanced wants 1.5x", agents.Actor{Money: 140, Archetype: agents.ArchBalanced}, agents.Pass},
		{"balanced at 1.5x", agents.Actor{Money: 150, Archetype: agents.ArchBalanced}, agents.Buy},
		{"conservative wants 2x", agents.Actor{Money: 190, Archetype: agents.ArchConservative}, agents.Pass},
		{"conservative at 2x", agents.Actor{Money: 200, Archetype: agents.ArchConservative}, agents.Buy},
		{"karma tips the scale", agents.Actor{Money: 145, Archetype: agents.ArchBalanced, Karma: 1}, agents.Buy},
		{"cannot afford", agents.Actor{Money: 99, Archetype: agents.ArchAggressive, Karma: 10}, agents.Pass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, agents.DecidePurchase(tc.actor, boat, mkt, &entropy.Script{}))
		})
	}
}

func TestDecidePurchase_PassiveSkips(t *testing.T) {
	rich := agents.Actor{Money: 10000, Archetype: agents.ArchPassive}
	mkt := market.Initial()
	assert.Equal(t, agents.Pass, agents.DecidePurchase(rich, boat, mkt, &entropy.Script{Floats: []float64{0.5}}))
	assert.Equal(t, agents.Buy, agents.DecidePurchase(rich, boat, mkt, &entropy.Script{Floats: []float64{0.9}}))
}

func TestDecidePurchase_CrashKillsThinYield(t *testing.T) {
	thin := board.Property{Price: 100, BaseRent: 12, Category: board.CategoryRestaurant}
	a := agents.Actor{Money: 1000, Archetype: agents.ArchAggressive}
	assert.Equal(t, agents.Buy, agents.DecidePurchase(a, thin, market.State{Trend: market.TrendStable}, &entropy.Script{}))
	assert.Equal(t, agents.Pass, agents.DecidePurchase(a, thin, market.State{Trend: market.TrendCrash}, &entropy.Script{}))
}

func TestDecidePurchase_NeverOverspends(t *testing.T) {
	src := entropy.New(3)
	for _, arch := range agents.Archetypes {
		for money := 0; money < 400; money += 7 {
			a := agents.Actor{Money: money, Archetype: arch, Karma: 0.5}
			if agents.DecidePurchase(a, boat, market.Initial(), src) == agents.Buy {
				assert.GreaterOrEqual(t, money, boat.Price)
			}
		}
	}
}

func TestDecideBail(t *testing.T) {
	a := agents.Actor{Money: 100}
	assert.True(t, agents.DecideBail(a, 50, &entropy.Script{Floats: []float64{0.1}}))
	assert.False(t, agents.DecideBail(a, 50, &entropy.Script{Floats: []float64{0.9}}))

	broke := agents.Actor{Money: 40}
	src := &entropy.Script{Floats: []float64{0.1, 0.2}}
	assert.False(t, agents.DecideBail(broke, 50, src))
	assert.Len(t, src.Floats, 1, "flip is drawn even when bail is unaffordable")
}

func TestChooseFate_ValidIndex(t *testing.T) {
	menu := fate.DefaultCatalog()[:3]
	src := entropy.New(8)
	for _, arch := range agents.Archetypes {
		for i := 0; i < 100; i++ {
			idx := agents.ChooseFate(agents.Actor{Archetype: arch}, menu, src)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, len(menu))
		}
	}
	assert.Zero(t, agents.ChooseFate(agents.Actor{}, nil, src))
}

func TestChooseFate_ConservativeAvoidsLosses(t *testing.T) {
	menu := []fate.Outcome{
		{Label: "loss", MoneyDelta: -200},
		{Label: "gain", MoneyDelta: 100},
	}
	picks := 0
	src := entropy.New(21)
	for i := 0; i < 1000; i++ {
		if agents.ChooseFate(agents.Actor{Archetype: agents.ArchConservative}, menu, src) == 1 {
			picks++
		}
	}
	assert.Greater(t, picks, 800)
}

func TestDecideUpgrade(t *testing.T) {
	costs := []int{60, 150, 300, 600}
	idx, ok := agents.DecideUpgrade(agents.Actor{Money: 700, Archetype: agents.ArchBalanced}, costs, &entropy.Script{})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = agents.DecideUpgrade(agents.Actor{Money: 100, Archetype: agents.ArchBalanced}, costs, &entropy.Script{})
	assert.False(t, ok)

	_, ok = agents.DecideUpgrade(agents.Actor{Money: 5000, Archetype: agents.ArchPassive}, costs, &entropy.Script{Floats: []float64{0.1}})
	assert.False(t, ok)
}

func TestParseArchetype(t *testing.T) {
	for _, a := range agents.Archetypes {
		got, err := agents.ParseArchetype(a.String())
		assert.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := agents.ParseArchetype("reckless")
	assert.Error(t, err)
}
