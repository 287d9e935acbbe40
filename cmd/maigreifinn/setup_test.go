package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/config"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/entropy"
)

func TestRulesFrom_DefaultsMatchEngine(t *testing.T) {
	assert.Equal(t, engine.DefaultRules(), rulesFrom(config.Default().Rules))
}

func TestLoadBoard(t *testing.T) {
	b, err := loadBoard(config.BoardConfig{Laps: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, b.Len())

	gen, err := loadBoard(config.BoardConfig{Generate: true, Laps: 2, Jitter: 0.1}, 9)
	require.NoError(t, err)
	assert.Equal(t, 40, gen.Len())

	path := filepath.Join(t.TempDir(), "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`spaces:
  - {name: Harbor, kind: start}
  - {name: Jón Páll, kind: property, category: boat, price: 100, rent: 20}
  - {name: Pier, kind: free}
`), 0o644))
	tiny, err := loadBoard(config.BoardConfig{File: path}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, tiny.Len())

	_, err = loadBoard(config.BoardConfig{File: filepath.Join(t.TempDir(), "missing.yaml")}, 1)
	assert.Error(t, err)
}

func TestSeatsFrom_FillsWithSkippers(t *testing.T) {
	g := config.GameConfig{
		Fill:    4,
		Players: []config.SeatConfig{{Name: "Anna"}, {Name: "Björn", Archetype: "passive", Autonomous: true}},
	}
	seats, err := seatsFrom(g, entropy.New(3))
	require.NoError(t, err)
	require.Len(t, seats, 4)
	assert.Equal(t, "Anna", seats[0].Name)
	assert.False(t, seats[0].Autonomous)
	assert.True(t, seats[1].Autonomous)
	assert.True(t, seats[2].Autonomous)
	assert.True(t, seats[3].Autonomous)
	assert.NotEqual(t, seats[2].Name, seats[3].Name)
}

func TestSimulate_StopsAtRoundCap(t *testing.T) {
	cfg := config.Default()
	cfg.Game.Seed = 7
	cfg.Game.Fill = 3
	cfg.Game.MaxRounds = 10

	g, err := simulate(context.Background(), cfg)
	require.NoError(t, err)
	if g.Turn.Phase != engine.PhaseGameOver {
		assert.GreaterOrEqual(t, g.Turn.Round, 10)
	}
	require.NoError(t, g.Ledger.Validate(g.Board))

	var out bytes.Buffer
	printStandings(&out, g)
	assert.Contains(t, out.String(), "Standings after round")
}

func TestSpaceRequests(t *testing.T) {
	b, err := loadBoard(config.BoardConfig{}, 1)
	require.NoError(t, err)
	reqs := spaceRequests(b)
	require.Len(t, reqs, b.Len())
	assert.Equal(t, "property", reqs[4].Kind)
	assert.Equal(t, "boat", reqs[4].Category)
	assert.Equal(t, 180, reqs[4].Price)
}
