// Archetype-guided decision profiles: the behavioral templates that give
// autonomous skippers their personality. Each archetype adjusts purchase
// thresholds and bail appetite.
package agents

import "fmt"

// Archetype is the behavioral profile of an autonomous player.
type Archetype uint8

const (
	ArchBalanced Archetype = iota
	ArchAggressive
	ArchConservative
	ArchPassive
)

// Archetypes lists every archetype, in spawn rotation order.
var Archetypes = []Archetype{ArchAggressive, ArchConservative, ArchBalanced, ArchPassive}

// String returns the archetype's config name.
func (a Archetype) String() string {
	switch a {
	case ArchAggressive:
		return "aggressive"
	case ArchConservative:
		return "conservative"
	case ArchPassive:
		return "passive"
	default:
		return "balanced"
	}
}

// ParseArchetype is the inverse of Archetype.String.
func ParseArchetype(s string) (Archetype, error) {
	switch s {
	case "aggressive":
		return ArchAggressive, nil
	case "conservative":
		return ArchConservative, nil
	case "balanced", "":
		return ArchBalanced, nil
	case "passive":
		return ArchPassive, nil
	default:
		return 0, fmt.Errorf("unknown archetype %q", s)
	}
}

// MarshalText encodes the archetype by name.
func (a Archetype) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (a *Archetype) UnmarshalText(b []byte) error {
	v, err := ParseArchetype(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Profile holds the tunables one archetype applies to every decision.
type Profile struct {
	// Threshold is the money/price ratio required before buying.
	Threshold float64

	// SkipChance is the probability of not evaluating a purchase at all.
	SkipChance float64

	// BailBias is the probability of paying bail when it is affordable.
	BailBias float64

	// MinYield is the minimum rent/price ratio, after market scaling.
	MinYield float64

	// RiskAppetite weights fate choices toward big swings (>0) or away from losses (<0).
	RiskAppetite float64
}

// profiles maps archetype to its decision profile.
var profiles = map[Archetype]Profile{
	ArchAggressive: {
		Threshold:    1.05, // Buys with barely enough
		BailBias:     0.7,
		MinYield:     0.1,
		RiskAppetite: 1,
	},
	ArchBalanced: {
		Threshold: 1.5,
		BailBias:  0.7,
		MinYield:  0.1,
	},
	ArchConservative: {
		Threshold:    2.0, // Wants twice the price in the bank
		BailBias:     0.7,
		MinYield:     0.1,
		RiskAppetite: -1,
	},
	ArchPassive: {
		Threshold:  1.5,
		SkipChance: 0.8, // Asleep at the wheel
		BailBias:   0.7,
		MinYield:   0.1,
	},
}

// ProfileFor returns the profile for an archetype; unknown values get Balanced.
func ProfileFor(a Archetype) Profile {
	if p, ok := profiles[a]; ok {
		return p
	}
	return profiles[ArchBalanced]
}
