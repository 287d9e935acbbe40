package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/fate"
	"github.com/talgya/maigreifinn/internal/ledger"
	"github.com/talgya/maigreifinn/internal/market"
	"github.com/talgya/maigreifinn/internal/voyage"
)

// SnapshotVersion is bumped whenever Snapshot changes incompatibly.
const SnapshotVersion = 1

// ErrInvalidSnapshot wraps every reason a snapshot cannot be restored.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the full restorable state of a game. Images and other large
// assets are referenced, never embedded.
type Snapshot struct {
	Version   int              `json:"version"`
	Board     *board.Board     `json:"board"`
	Ledger    *ledger.Ledger   `json:"ledger"`
	Market    market.State     `json:"market"`
	History   *market.History  `json:"history"`
	Rules     Rules            `json:"rules"`
	Turn      Turn             `json:"turn"`
	Pending   []fate.Outcome   `json:"pending,omitempty"`
	Offers    []voyage.Upgrade `json:"offers,omitempty"`
	Session   *voyage.Session  `json:"session,omitempty"`
	Fates     []fate.Outcome   `json:"fates"`
	FateLimit int              `json:"fate_limit"`
	Shipyard  []voyage.Upgrade `json:"shipyard"`
	Log       []Event          `json:"log"`
	Seq       uint64           `json:"seq"`
	Seed      int64            `json:"seed,omitempty"`
	Draws     uint64           `json:"draws,omitempty"`
}

// Snapshot deep-copies the game.
func (g *Game) Snapshot() Snapshot {
	hist := &market.History{Limit: g.History.Limit}
	for _, s := range g.History.States {
		hist.States = append(hist.States, s.Clone())
	}
	s := Snapshot{
		Version:   SnapshotVersion,
		Board:     g.Board.Clone(),
		Ledger:    g.Ledger.Clone(),
		Market:    g.Market.Clone(),
		History:   hist,
		Rules:     g.Rules,
		Turn:      g.Turn,
		Pending:   append([]fate.Outcome(nil), g.Pending...),
		Offers:    append([]voyage.Upgrade(nil), g.Offers...),
		Fates:     g.fates.Catalog(),
		FateLimit: g.fates.Limit(),
		Shipyard:  append([]voyage.Upgrade(nil), g.shipyard...),
		Log:       append([]Event(nil), g.Log...),
		Seq:       g.seq,
	}
	if r, ok := g.src.(entropy.Resumable); ok {
		s.Seed, s.Draws = r.Seed(), r.Draws()
	}
	if g.Turn.Winner != nil {
		w := *g.Turn.Winner
		s.Turn.Winner = &w
	}
	if g.Session != nil {
		sess := *g.Session
		sess.Tiles = append([]voyage.Tile(nil), g.Session.Tiles...)
		s.Session = &sess
	}
	return s
}

// Validate checks that a snapshot describes a consistent game.
func (s Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidSnapshot, s.Version, SnapshotVersion)
	}
	if s.Board == nil || s.Ledger == nil {
		return fmt.Errorf("%w: missing board or ledger", ErrInvalidSnapshot)
	}
	if err := s.Board.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(s.Ledger.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvalidSnapshot)
	}
	if err := s.Ledger.Validate(s.Board); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, p := range s.Ledger.Players {
		if p.Hunger < 0 || p.Hunger > s.Rules.MaxHunger {
			return fmt.Errorf("%w: %s hunger %d out of range", ErrInvalidSnapshot, p.Name, p.Hunger)
		}
	}

	t := s.Turn
	if t.Active < 0 || t.Active >= len(s.Ledger.Players) {
		return fmt.Errorf("%w: active player %d", ErrInvalidSnapshot, t.Active)
	}
	if t.Phase.Transient() || t.Phase > PhaseGameOver {
		return fmt.Errorf("%w: game at rest in %s", ErrInvalidSnapshot, t.Phase)
	}
	if t.Phase != PhaseGameOver && s.Ledger.Players[t.Active].Bankrupt {
		return fmt.Errorf("%w: active player is bankrupt", ErrInvalidSnapshot)
	}
	switch t.Phase {
	case PhaseFateChoice:
		if len(s.Pending) == 0 {
			return fmt.Errorf("%w: fate choice with no options", ErrInvalidSnapshot)
		}
	case PhaseShipyardMenu:
		if len(s.Offers) == 0 {
			return fmt.Errorf("%w: shipyard menu with no offers", ErrInvalidSnapshot)
		}
	case PhaseVoyage:
		if s.Session == nil || !s.Session.Active {
			return fmt.Errorf("%w: voyage with no active session", ErrInvalidSnapshot)
		}
	}
	if s.Session != nil && s.Session.Accumulated != s.Session.Sum() {
		return fmt.Errorf("%w: voyage haul does not match revealed tiles", ErrInvalidSnapshot)
	}
	return nil
}

// FromSnapshot validates s and builds a game from a copy of it. An invalid
// snapshot returns an error and builds nothing. A snapshot that recorded its
// random source resumes that source and ignores src.
func FromSnapshot(s Snapshot, src entropy.Source) (*Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Seed != 0 {
		src = entropy.Resume(s.Seed, s.Draws)
	}

	hist := market.NewHistory(50)
	if s.History != nil {
		hist = market.NewHistory(s.History.Limit)
		for _, st := range s.History.States {
			hist.Record(st)
		}
	}

	g := newGame(s.Board.Clone(), s.Ledger.Clone(), s.Rules,
		fate.NewResolver(s.Fates, s.FateLimit), append([]voyage.Upgrade(nil), s.Shipyard...), src)
	g.Market = s.Market.Clone()
	g.History = hist
	g.Turn = s.Turn
	if s.Turn.Winner != nil {
		w := *s.Turn.Winner
		g.Turn.Winner = &w
	}
	g.Pending = append([]fate.Outcome(nil), s.Pending...)
	g.Offers = append([]voyage.Upgrade(nil), s.Offers...)
	if s.Session != nil {
		sess := *s.Session
		sess.Tiles = append([]voyage.Tile(nil), s.Session.Tiles...)
		g.Session = &sess
	}
	g.Log = append([]Event(nil), s.Log...)
	g.seq = s.Seq
	return g, nil
}
