// Package fate provides the chance-space resolver: a weighted catalog of
// outcome templates from which a small menu is drawn per landing.
package fate

import (
	"github.com/talgya/maigreifinn/internal/entropy"
)

// Outcome is one fate template. Deltas are applied together, once.
type Outcome struct {
	Label          string `json:"label"`
	Description    string `json:"description"`
	MoneyDelta     int    `json:"money_delta"`
	HungerDelta    int    `json:"hunger_delta"`
	EquipmentDelta int    `json:"equipment_delta"` // Secondary stat: equipment condition
	Weight         int    `json:"weight"`          // Relative draw weight; <=0 counts as 1
	Generated      bool   `json:"generated,omitempty"`
}

// DefaultCatalog returns the built-in harbor fates.
func DefaultCatalog() []Outcome {
	return []Outcome{
		{Label: "Herring Shoal", Description: "A silver shoal rolls under the hull.", MoneyDelta: 80, Weight: 3},
		{Label: "Torn Net", Description: "The net snags on a wreck.", MoneyDelta: -40, EquipmentDelta: -15, Weight: 3},
		{Label: "Fish Soup", Description: "The cook outdoes herself.", HungerDelta: -3, Weight: 3},
		{Label: "Customs Inspection", Description: "The inspector finds paperwork lacking.", MoneyDelta: -60, Weight: 2},
		{Label: "Salvage", Description: "You tow a drifting dinghy to port.", MoneyDelta: 120, HungerDelta: 1, Weight: 2},
		{Label: "Fog Bank", Description: "Two days lost in grey.", HungerDelta: 2, Weight: 2},
		{Label: "Harbor Festival", Description: "Sjómannadagurinn! Everyone buys you a drink.", MoneyDelta: 50, HungerDelta: -1, Weight: 2},
		{Label: "Engine Trouble", Description: "The old diesel coughs and dies.", MoneyDelta: -80, EquipmentDelta: -10, Weight: 1},
		{Label: "Lucky Whale", Description: "Tourists pay well to watch a humpback breach.", MoneyDelta: 150, Weight: 1},
		{Label: "Shipwright's Favor", Description: "An old friend patches your hull for free.", EquipmentDelta: 20, Weight: 1},
	}
}

// Fallback is the outcome used when a menu cannot be drawn.
var Fallback = Outcome{
	Label:       "Quiet Sea",
	Description: "The sea is quiet. Nothing happens.",
	Weight:      1,
}

// Resolver draws menus from a catalog. It holds no game state.
type Resolver struct {
	catalog []Outcome
	limit   int
}

// NewResolver creates a resolver over catalog. Externally supplied outcomes
// are kept up to limit entries beyond the base catalog (0 = unbounded).
func NewResolver(catalog []Outcome, limit int) *Resolver {
	c := make([]Outcome, len(catalog))
	copy(c, catalog)
	return &Resolver{catalog: c, limit: limit}
}

// Limit is the cap on generated outcomes, 0 for none.
func (r *Resolver) Limit() int { return r.limit }

// Catalog returns a copy of the current pool.
func (r *Resolver) Catalog() []Outcome {
	out := make([]Outcome, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Add appends outcomes to the pool, e.g. from the content generator.
// Oldest generated outcomes are dropped first once the limit is reached.
func (r *Resolver) Add(outcomes ...Outcome) {
	for _, o := range outcomes {
		o.Generated = true
		r.catalog = append(r.catalog, o)
	}
	if r.limit <= 0 {
		return
	}
	for r.generatedCount() > r.limit {
		for i, o := range r.catalog {
			if o.Generated {
				r.catalog = append(r.catalog[:i], r.catalog[i+1:]...)
				break
			}
		}
	}
}

func (r *Resolver) generatedCount() int {
	n := 0
	for _, o := range r.catalog {
		if o.Generated {
			n++
		}
	}
	return n
}

// Draw returns up to n distinct outcomes, weighted without replacement.
// An empty pool yields the Fallback alone, so a menu is never empty.
func (r *Resolver) Draw(src entropy.Source, n int) []Outcome {
	if len(r.catalog) == 0 || n <= 0 {
		return []Outcome{Fallback}
	}

	pool := make([]Outcome, len(r.catalog))
	copy(pool, r.catalog)

	menu := make([]Outcome, 0, n)
	for len(menu) < n && len(pool) > 0 {
		total := 0
		for _, o := range pool {
			total += weight(o)
		}
		pick := src.Intn(total)
		for i, o := range pool {
			pick -= weight(o)
			if pick < 0 {
				menu = append(menu, o)
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}
	return menu
}

func weight(o Outcome) int {
	if o.Weight <= 0 {
		return 1
	}
	return o.Weight
}
