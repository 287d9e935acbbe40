package board_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/board"
)

// kindCounter exercises the visitor over every kind.
type kindCounter struct {
	counts map[string]int
}

func (k *kindCounter) VisitStart(board.Start)                   { k.counts["start"]++ }
func (k *kindCounter) VisitFree(board.Free)                     { k.counts["free"]++ }
func (k *kindCounter) VisitProperty(board.Property)             { k.counts["property"]++ }
func (k *kindCounter) VisitChance(board.Chance)                 { k.counts["chance"]++ }
func (k *kindCounter) VisitStorm(board.Storm)                   { k.counts["storm"]++ }
func (k *kindCounter) VisitJail(board.Jail)                     { k.counts["jail"]++ }
func (k *kindCounter) VisitGoToJail(board.GoToJail)             { k.counts["go_to_jail"]++ }
func (k *kindCounter) VisitShipyard(board.Shipyard)             { k.counts["shipyard"]++ }
func (k *kindCounter) VisitFishingGrounds(board.FishingGrounds) { k.counts["fishing"]++ }

func TestDefault_IsValidAndMatchesPrintedBoard(t *testing.T) {
	b := board.Default()
	require.NoError(t, b.Validate())
	assert.Equal(t, 20, b.Len())

	p, ok := b.At(4).Property()
	require.True(t, ok)
	assert.Equal(t, 180, p.Price)
	assert.Equal(t, board.CategoryBoat, p.Category)

	moby, ok := b.At(16).Property()
	require.True(t, ok)
	assert.Equal(t, 60, moby.BaseRent)

	assert.Equal(t, 15, b.JailID())
	assert.Nil(t, b.At(-1))
	assert.Nil(t, b.At(20))
}

func TestDefault_VisitorSeesEveryKind(t *testing.T) {
	v := &kindCounter{counts: map[string]int{}}
	for _, s := range board.Default().Spaces {
		s.Kind.Accept(v)
	}
	assert.Equal(t, 1, v.counts["start"])
	assert.Equal(t, 10, v.counts["property"])
	assert.Equal(t, 2, v.counts["chance"])
	assert.Equal(t, 2, v.counts["fishing"])
	for _, name := range []string{"free", "storm", "jail", "go_to_jail", "shipyard"} {
		assert.Equal(t, 1, v.counts[name], name)
	}
}

func TestValidate_RejectsBrokenTracks(t *testing.T) {
	cases := map[string][]*board.Space{
		"too short": {{ID: 0, Kind: board.Start{}}},
		"bad id": {
			{ID: 0, Kind: board.Start{}},
			{ID: 2, Kind: board.Free{}},
		},
		"no start": {
			{ID: 0, Kind: board.Free{}},
			{ID: 1, Kind: board.Free{}},
		},
		"free property": {
			{ID: 0, Kind: board.Start{}},
			{ID: 1, Kind: board.Property{Price: 0, BaseRent: 10}},
		},
		"go to jail without jail": {
			{ID: 0, Kind: board.Start{}},
			{ID: 1, Kind: board.GoToJail{}},
		},
	}
	for name, spaces := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := board.New(spaces)
			assert.Error(t, err)
		})
	}
}

func TestSpaceJSON_RoundTripKeepsKindAndOwner(t *testing.T) {
	b := board.Default()
	owner := board.PlayerID(1)
	b.At(3).Owner = &owner

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"property"`)
	assert.Contains(t, string(data), `"category":"restaurant"`)

	var back board.Board
	require.NoError(t, json.Unmarshal(data, &back))
	require.NoError(t, back.Validate())
	assert.True(t, back.At(3).OwnedBy(1))
	p, ok := back.At(3).Property()
	require.True(t, ok)
	assert.Equal(t, board.CategoryRestaurant, p.Category)
	assert.IsType(t, board.GoToJail{}, back.At(18).Kind)
}

func TestClone_DoesNotAliasOwners(t *testing.T) {
	b := board.Default()
	owner := board.PlayerID(0)
	b.At(1).Owner = &owner

	c := b.Clone()
	*c.At(1).Owner = 5
	assert.True(t, b.At(1).OwnedBy(0))
}

func TestGenerate_DeterministicFromSeed(t *testing.T) {
	cfg := board.DefaultGenConfig()
	a, err := board.Generate(cfg)
	require.NoError(t, err)
	b, err := board.Generate(cfg)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for i := range a.Spaces {
		assert.Equal(t, a.Spaces[i].Kind, b.Spaces[i].Kind)
		assert.Equal(t, a.Spaces[i].Name, b.Spaces[i].Name)
	}

	cfg.Laps = 2
	big, err := board.Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, 40, big.Len())
	assert.IsType(t, board.Free{}, big.At(20).Kind)
	for _, id := range big.PropertiesOf(board.CategoryBoat) {
		p, _ := big.At(id).Property()
		assert.Positive(t, p.Price)
		assert.Positive(t, p.BaseRent)
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
spaces:
  - {name: Harbor, kind: start}
  - {name: Jón Páll, kind: property, category: boat, price: 100, rent: 20}
  - {name: Net, kind: jail}
  - {name: Coast Guard, kind: go_to_jail}
`
	b, err := board.LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 2, b.JailID())

	_, err = board.LoadYAML(strings.NewReader("spaces:\n  - {name: X, kind: lighthouse}\n"))
	assert.Error(t, err)

	_, err = board.LoadYAML(strings.NewReader("spaces:\n  - {name: X, kind: start, colour: red}\n"))
	assert.Error(t, err, "unknown fields are rejected")
}
