// Autonomous decision policy. Every function here is pure: it reads an Actor
// view plus a board/market snapshot and returns a decision. All randomness
// comes from the injected source, so a seeded game replays exactly.
package agents

import (
	"math"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/fate"
	"github.com/talgya/maigreifinn/internal/market"
)

// Actor is the read-only view of a player the policy decides for.
type Actor struct {
	Name      string
	Money     int // Balance of the player's funding source
	Hunger    int
	Archetype Archetype
	Karma     float64 // Small personal bias, roughly -1..1
}

// Decision is the outcome of a purchase evaluation.
type Decision uint8

const (
	Pass Decision = iota
	Buy
)

// String returns BUY or PASS.
func (d Decision) String() string {
	if d == Buy {
		return "BUY"
	}
	return "PASS"
}

// karmaWeight scales Karma into the affordability ratio.
const karmaWeight = 0.1

// DecidePurchase evaluates an unowned property. Passive players skip the
// evaluation most of the time; everyone else buys when affordability meets
// their archetype threshold and the market-scaled yield clears the minimum.
// Never returns Buy for a price the actor cannot pay.
func DecidePurchase(a Actor, prop board.Property, mkt market.State, src entropy.Source) Decision {
	prof := ProfileFor(a.Archetype)

	if prof.SkipChance > 0 && entropy.Chance(src, prof.SkipChance) {
		return Pass
	}
	if prop.Price <= 0 || a.Money < prop.Price {
		return Pass
	}

	affordability := float64(a.Money)/float64(prop.Price) + a.Karma*karmaWeight
	if affordability < prof.Threshold {
		return Pass
	}

	yield := float64(prop.BaseRent) / float64(prop.Price) * mkt.YieldFactor()
	if yield < prof.MinYield {
		return Pass
	}
	return Buy
}

// DecideBail returns true to pay bail, false to attempt the escape roll.
// One coin flip is always drawn so the replay stream does not depend on
// the balance.
func DecideBail(a Actor, bail int, src entropy.Source) bool {
	flip := src.Float64()
	if a.Money < bail {
		return false
	}
	return flip < ProfileFor(a.Archetype).BailBias
}

// ChooseFate picks one option index. Balanced and passive players choose
// uniformly; aggressive players favor big swings and conservative players
// favor small losses. Always returns a valid index for a non-empty menu,
// and 0 for an empty one.
func ChooseFate(a Actor, options []fate.Outcome, src entropy.Source) int {
	if len(options) <= 1 {
		return 0
	}
	appetite := ProfileFor(a.Archetype).RiskAppetite
	if appetite == 0 {
		return src.Intn(len(options))
	}

	weights := make([]float64, len(options))
	total := 0.0
	for i, o := range options {
		w := 1.0
		if appetite > 0 {
			w += math.Abs(float64(o.MoneyDelta)) / 50
		} else if o.MoneyDelta < 0 {
			w = 1 / (1 + math.Abs(float64(o.MoneyDelta))/25)
		} else {
			w += float64(o.MoneyDelta) / 100
		}
		weights[i] = w
		total += w
	}

	r := src.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(options) - 1
}

// DecideUpgrade picks the most expensive shipyard offer the actor clears by
// its archetype threshold, or false to leave the shipyard empty-handed.
// Upgrades are luxuries, so the threshold is doubled relative to property.
func DecideUpgrade(a Actor, costs []int, src entropy.Source) (int, bool) {
	prof := ProfileFor(a.Archetype)
	if prof.SkipChance > 0 && entropy.Chance(src, prof.SkipChance) {
		return 0, false
	}

	best, found := 0, false
	for i, c := range costs {
		if c <= 0 || a.Money < c {
			continue
		}
		if float64(a.Money)/float64(c) < prof.Threshold*2 {
			continue
		}
		if !found || c > costs[best] {
			best, found = i, true
		}
	}
	return best, found
}
