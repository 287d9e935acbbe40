package agents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/entropy"
)

func TestSpawnCrew_UniqueAndRotating(t *testing.T) {
	s := agents.NewSpawner(entropy.New(4))
	crew := s.SpawnCrew(8)
	names := map[string]bool{}
	for i, r := range crew {
		assert.False(t, names[r.Name], "duplicate name %s", r.Name)
		names[r.Name] = true
		assert.Equal(t, agents.Archetypes[i%len(agents.Archetypes)], r.Archetype)
		assert.True(t, r.Autonomous)
		assert.GreaterOrEqual(t, r.Karma, -0.5)
		assert.LessOrEqual(t, r.Karma, 0.5)
	}
}

func TestSpawn_RespectsReservedNames(t *testing.T) {
	s := agents.NewSpawner(&entropy.Script{})
	s.Reserve("Jón of Grindavík")
	r := s.Spawn(0)
	assert.Equal(t, "Skipper 2", r.Name)
	assert.Equal(t, agents.ArchAggressive, r.Archetype)
}
