// Package voyage provides the fishing sub-game: a small grid of hidden tiles
// the skipper reveals one at a time before heading back to port.
package voyage

import (
	"math"

	"github.com/talgya/maigreifinn/internal/entropy"
)

// Content is what a tile hides.
type Content uint8

const (
	Empty Content = iota
	Reward
	BigReward
	Hazard
)

// String returns the tile content name.
func (c Content) String() string {
	switch c {
	case Reward:
		return "REWARD"
	case BigReward:
		return "BIG_REWARD"
	case Hazard:
		return "HAZARD"
	default:
		return "EMPTY"
	}
}

// Config sets the grid size, draw bands, and tile values.
// Bands are cumulative in the order empty, reward, big reward; the rest is hazard.
type Config struct {
	Tiles          int
	EmptyChance    float64
	RewardChance   float64
	BigChance      float64
	RewardValue    int
	BigRewardValue int
	HazardValue    int // Negative
	HazardWear     int // Equipment condition lost per hazard
	TierBonus      float64
	QuickReveals   int // Tiles an autonomous skipper samples
}

// DefaultConfig returns the standard nine-tile grid.
func DefaultConfig() Config {
	return Config{
		Tiles:          9,
		EmptyChance:    0.55,
		RewardChance:   0.25,
		BigChance:      0.08,
		RewardValue:    40,
		BigRewardValue: 150,
		HazardValue:    -60,
		HazardWear:     15,
		TierBonus:      0.25,
		QuickReveals:   3,
	}
}

// Tile is one grid cell.
type Tile struct {
	Revealed bool    `json:"revealed"`
	Content  Content `json:"content"`
	Value    int     `json:"value"`
	Wear     int     `json:"wear,omitempty"`
}

// Session is one trip out to the fishing grounds.
type Session struct {
	Tiles       []Tile `json:"tiles"`
	Accumulated int    `json:"accumulated"`
	Wear        int    `json:"wear"`
	Active      bool   `json:"active"`
}

// Gear is the boat a skipper takes out.
type Gear struct {
	Tier      int // Hull tier from the shipyard, 0 = rowboat
	Condition int // Equipment condition, 0..MaxCondition
}

// scale is the reward multiplier: +TierBonus per hull tier, and a worn-out
// boat brings home half as much as a maintained one.
func (g Gear) scale(cfg Config) float64 {
	cond := g.Condition
	if cond < 0 {
		cond = 0
	}
	if cond > MaxCondition {
		cond = MaxCondition
	}
	return (1 + cfg.TierBonus*float64(g.Tier)) * (0.5 + 0.5*float64(cond)/MaxCondition)
}

// New generates a fresh grid. Each tile is drawn independently; reward
// values scale with the gear.
func New(src entropy.Source, cfg Config, gear Gear) *Session {
	n := cfg.Tiles
	if n <= 0 {
		n = 9
	}
	s := &Session{Tiles: make([]Tile, n), Active: true}
	for i := range s.Tiles {
		s.Tiles[i] = drawTile(src, cfg, gear.scale(cfg))
	}
	return s
}

func drawTile(src entropy.Source, cfg Config, scale float64) Tile {
	r := src.Float64()
	switch {
	case r < cfg.EmptyChance:
		return Tile{Content: Empty}
	case r < cfg.EmptyChance+cfg.RewardChance:
		return Tile{Content: Reward, Value: int(math.Round(float64(cfg.RewardValue) * scale))}
	case r < cfg.EmptyChance+cfg.RewardChance+cfg.BigChance:
		return Tile{Content: BigReward, Value: int(math.Round(float64(cfg.BigRewardValue) * scale))}
	default:
		return Tile{Content: Hazard, Value: cfg.HazardValue, Wear: cfg.HazardWear}
	}
}

// Reveal turns over tile i. Returns the tile and true if it was newly
// revealed; already-revealed, out-of-range, or closed sessions return false.
func (s *Session) Reveal(i int) (Tile, bool) {
	if s == nil || !s.Active || i < 0 || i >= len(s.Tiles) {
		return Tile{}, false
	}
	t := &s.Tiles[i]
	if t.Revealed {
		return *t, false
	}
	t.Revealed = true
	s.Accumulated += t.Value
	s.Wear += t.Wear
	return *t, true
}

// Sum recomputes the value of every revealed tile.
func (s *Session) Sum() int {
	total := 0
	for _, t := range s.Tiles {
		if t.Revealed {
			total += t.Value
		}
	}
	return total
}

// Revealed counts revealed tiles.
func (s *Session) Revealed() int {
	n := 0
	for _, t := range s.Tiles {
		if t.Revealed {
			n++
		}
	}
	return n
}

// Close ends the session and returns its haul and equipment wear exactly
// once; later calls return ok=false.
func (s *Session) Close() (value, wear int, ok bool) {
	if s == nil || !s.Active {
		return 0, 0, false
	}
	s.Active = false
	return s.Accumulated, s.Wear, true
}

// Masked returns a copy safe to show the player: unrevealed tiles hide
// their content.
func (s *Session) Masked() Session {
	out := Session{Accumulated: s.Accumulated, Wear: s.Wear, Active: s.Active, Tiles: make([]Tile, len(s.Tiles))}
	for i, t := range s.Tiles {
		if t.Revealed {
			out.Tiles[i] = t
		}
	}
	return out
}

// QuickCatch is the abstracted payout for an autonomous skipper: generate a
// grid, reveal a few random tiles, and take the haul.
func QuickCatch(src entropy.Source, cfg Config, gear Gear) (value, wear int) {
	s := New(src, cfg, gear)
	reveals := cfg.QuickReveals
	if reveals <= 0 || reveals > len(s.Tiles) {
		reveals = len(s.Tiles)
	}
	for s.Revealed() < reveals {
		var hidden []int
		for i, t := range s.Tiles {
			if !t.Revealed {
				hidden = append(hidden, i)
			}
		}
		s.Reveal(hidden[src.Intn(len(hidden))])
	}
	value, wear, _ = s.Close()
	return value, wear
}
