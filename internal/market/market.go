// Package market provides the commodity price simulator. Prices are
// multipliers over base rent, redrawn once per completed lap.
package market

import (
	"fmt"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/entropy"
)

// Commodity is a traded good whose price scales rent.
type Commodity uint8

const (
	CommodityFish Commodity = iota // Boats
	CommodityFood                  // Restaurants
)

// Commodities lists every commodity in draw order.
var Commodities = []Commodity{CommodityFish, CommodityFood}

// String returns the lowercase commodity name.
func (c Commodity) String() string {
	switch c {
	case CommodityFish:
		return "fish"
	case CommodityFood:
		return "food"
	default:
		return "unknown"
	}
}

// Trend classifies the market for a period.
type Trend uint8

const (
	TrendStable Trend = iota
	TrendBoom
	TrendCrash
)

// String returns the trend name.
func (t Trend) String() string {
	switch t {
	case TrendBoom:
		return "BOOM"
	case TrendCrash:
		return "CRASH"
	default:
		return "STABLE"
	}
}

// Band is a closed-open multiplier range.
type Band struct {
	Lo, Hi float64
}

// Config holds the trend thresholds and multiplier bands.
type Config struct {
	BoomAbove  float64 // r above this → BOOM
	CrashBelow float64 // r below this → CRASH
	Boom       Band
	Crash      Band
	Stable     Band
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		BoomAbove:  0.85,
		CrashBelow: 0.15,
		Boom:       Band{1.4, 1.6},
		Crash:      Band{0.5, 0.7},
		Stable:     Band{0.8, 1.2},
	}
}

// State is one market snapshot. Rent settlement reads it; only Advance
// produces a new one.
type State struct {
	Trend  Trend                 `json:"trend"`
	Prices map[Commodity]float64 `json:"prices"`
	Round  int                   `json:"round"`
}

// Initial returns a stable market with every multiplier at 1.0.
func Initial() State {
	prices := make(map[Commodity]float64, len(Commodities))
	for _, c := range Commodities {
		prices[c] = 1.0
	}
	return State{Trend: TrendStable, Prices: prices}
}

// Advance draws the next market state. One trend draw, then one multiplier
// draw per commodity inside the trend's band.
func Advance(src entropy.Source, cfg Config, round int) State {
	r := src.Float64()

	trend := TrendStable
	band := cfg.Stable
	switch {
	case r > cfg.BoomAbove:
		trend, band = TrendBoom, cfg.Boom
	case r < cfg.CrashBelow:
		trend, band = TrendCrash, cfg.Crash
	}

	prices := make(map[Commodity]float64, len(Commodities))
	for _, c := range Commodities {
		prices[c] = entropy.Between(src, band.Lo, band.Hi)
	}
	return State{Trend: trend, Prices: prices, Round: round}
}

// CommodityFor maps a property category to the commodity that prices it.
func CommodityFor(c board.Category) Commodity {
	if c == board.CategoryRestaurant {
		return CommodityFood
	}
	return CommodityFish
}

// Multiplier returns the rent multiplier for a property category.
// Missing prices read as 1.0.
func (s State) Multiplier(c board.Category) float64 {
	if p, ok := s.Prices[CommodityFor(c)]; ok {
		return p
	}
	return 1.0
}

// YieldFactor scales expected rent yield for the agent policy.
func (s State) YieldFactor() float64 {
	switch s.Trend {
	case TrendBoom:
		return 1.25
	case TrendCrash:
		return 0.75
	default:
		return 1.0
	}
}

// Clone returns a copy that does not share the price map.
func (s State) Clone() State {
	out := s
	out.Prices = make(map[Commodity]float64, len(s.Prices))
	for k, v := range s.Prices {
		out.Prices[k] = v
	}
	return out
}

// MarshalText encodes the commodity by name, so JSON maps read "fish", "food".
func (c Commodity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *Commodity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fish":
		*c = CommodityFish
	case "food":
		*c = CommodityFood
	default:
		return fmt.Errorf("unknown commodity %q", b)
	}
	return nil
}

// MarshalText encodes the trend by name.
func (t Trend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *Trend) UnmarshalText(b []byte) error {
	switch string(b) {
	case "STABLE":
		*t = TrendStable
	case "BOOM":
		*t = TrendBoom
	case "CRASH":
		*t = TrendCrash
	default:
		return fmt.Errorf("unknown trend %q", b)
	}
	return nil
}
