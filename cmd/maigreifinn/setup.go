package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/config"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/ledger"
	"github.com/talgya/maigreifinn/internal/llm"
)

// rulesFrom applies configured overrides to the standard rules.
func rulesFrom(c config.RulesConfig) engine.Rules {
	r := engine.DefaultRules()
	r.StartMoney = c.StartMoney
	r.LapBonus = c.LapBonus
	r.Bail = c.Bail
	r.MaxHunger = c.MaxHunger
	r.HungerPenalty = c.HungerPenalty
	r.StormPenalty = c.StormPenalty
	r.OwnerSetSize = c.OwnerSetSize
	r.OwnerBonus = c.OwnerBonus
	r.FateOptions = c.FateOptions
	r.LogLimit = c.LogLimit
	return r
}

// loadBoard picks the board: a definition file, a generated track, or the
// default harbor.
func loadBoard(c config.BoardConfig, seed int64) (*board.Board, error) {
	switch {
	case c.File != "":
		f, err := os.Open(c.File)
		if err != nil {
			return nil, fmt.Errorf("open board file: %w", err)
		}
		defer f.Close()
		return board.LoadYAML(f)
	case c.Generate:
		gen := board.DefaultGenConfig()
		gen.Seed = seed
		gen.Laps = c.Laps
		gen.Jitter = c.Jitter
		return board.Generate(gen)
	default:
		return board.Default(), nil
	}
}

// seatsFrom turns configured players into recruits and fills the remaining
// seats with spawned skippers.
func seatsFrom(g config.GameConfig, src entropy.Source) ([]agents.Recruit, error) {
	spawner := agents.NewSpawner(src)
	var seats []agents.Recruit
	for _, p := range g.Players {
		arch, err := agents.ParseArchetype(p.Archetype)
		if err != nil {
			return nil, err
		}
		spawner.Reserve(p.Name)
		seats = append(seats, agents.Recruit{
			Name:       p.Name,
			Archetype:  arch,
			Autonomous: p.Autonomous,
			Company:    p.Company,
		})
	}
	if n := g.Seats() - len(seats); n > 0 {
		seats = append(seats, spawner.SpawnCrew(n)...)
	}
	return seats, nil
}

// newGame builds a fresh game from configuration.
func newGame(cfg *config.Config, src entropy.Source, seed int64) (*engine.Game, error) {
	b, err := loadBoard(cfg.Game.Board, seed)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	mode, err := ledger.ParseFundingMode(cfg.Game.Funding)
	if err != nil {
		return nil, err
	}
	seats, err := seatsFrom(cfg.Game, src)
	if err != nil {
		return nil, err
	}
	for _, s := range seats {
		slog.Info("seat", "name", s.Name, "archetype", s.Archetype, "autonomous", s.Autonomous)
	}
	return engine.NewGame(engine.Setup{
		Board: b,
		Rules: rulesFrom(cfg.Rules),
		Mode:  mode,
		Seats: seats,
	}, src)
}

// seedFrom returns the configured seed, drawing one when it is 0.
func seedFrom(seed int64) int64 {
	if seed == 0 {
		return entropy.CryptoSeed()
	}
	return seed
}

// spaceRequests lists every space for the content enricher.
func spaceRequests(b *board.Board) []llm.SpaceRequest {
	reqs := make([]llm.SpaceRequest, 0, b.Len())
	for _, sp := range b.Spaces {
		req := llm.SpaceRequest{
			SpaceID: sp.ID,
			Kind:    sp.Kind.Name(),
			Name:    sp.Name,
			Current: sp.Description,
		}
		if p, ok := sp.Property(); ok {
			req.Category = p.Category.String()
			req.Price = p.Price
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// printStandings writes the final table with humanized money.
func printStandings(w io.Writer, g *engine.Game) {
	fmt.Fprintf(w, "\nStandings after round %d:\n", g.Turn.Round)
	for i, s := range g.Ledger.Standings(g.Board) {
		status := ""
		if s.Bankrupt {
			status = " (bankrupt)"
		}
		fmt.Fprintf(w, "  %d. %-28s net worth %9s kr  cash %9s kr  %2d properties%s\n",
			i+1, s.Name, humanize.Comma(int64(s.NetWorth)), humanize.Comma(int64(s.Money)), s.Owned, status)
	}
	if g.Turn.Winner != nil {
		fmt.Fprintf(w, "\nWinner: %s\n", g.Ledger.Player(*g.Turn.Winner).Name)
	}
}
