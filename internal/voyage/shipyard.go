package voyage

// Upgrade is a shipyard offer. Hull upgrades raise the boat tier, which
// scales voyage rewards; repairs restore equipment condition.
type Upgrade struct {
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	BoatTier int    `json:"boat_tier,omitempty"` // Tier granted; 0 for repairs
	Repair   int    `json:"repair,omitempty"`    // Condition restored
}

// MaxCondition is a fully maintained boat.
const MaxCondition = 100

// Catalog returns the shipyard's offers.
func Catalog() []Upgrade {
	return []Upgrade{
		{Name: "Net Repair", Cost: 60, Repair: 40},
		{Name: "Freyja 8m", Cost: 150, BoatTier: 1},
		{Name: "Víkingur 12m", Cost: 300, BoatTier: 2},
		{Name: "Jón af Grímsey 35m", Cost: 600, BoatTier: 3},
	}
}

// Offers filters the catalog to what a skipper could use: hulls above the
// current tier, and repairs only when condition is below max.
func Offers(catalog []Upgrade, tier, condition int) []Upgrade {
	var out []Upgrade
	for _, u := range catalog {
		switch {
		case u.BoatTier > 0 && u.BoatTier <= tier:
			continue
		case u.BoatTier == 0 && condition >= MaxCondition:
			continue
		}
		out = append(out, u)
	}
	return out
}

// Costs lists offer prices in order, for the agent policy.
func Costs(offers []Upgrade) []int {
	out := make([]int, len(offers))
	for i, u := range offers {
		out[i] = u.Cost
	}
	return out
}
