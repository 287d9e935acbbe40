// Skipper spawning: fills empty roster seats with named autonomous players.
package agents

import (
	"fmt"

	"github.com/talgya/maigreifinn/internal/entropy"
)

// Recruit is a roster seat ready to be turned into a player.
type Recruit struct {
	Name       string
	Archetype  Archetype
	Karma      float64
	Autonomous bool
	Company    string // Pooled account in company funding mode
}

// Spawner creates skippers for a game.
type Spawner struct {
	src  entropy.Source
	used map[string]bool
}

// NewSpawner creates a spawner drawing from src.
func NewSpawner(src entropy.Source) *Spawner {
	return &Spawner{src: src, used: make(map[string]bool)}
}

var (
	givenNames = []string{
		"Jón", "Guðrún", "Sigurður", "Helga", "Gunnar", "Anna", "Ólafur", "Kristín",
		"Einar", "Sigríður", "Magnús", "Margrét", "Björn", "Katrín", "Stefán", "Ragnheiður",
	}
	boatSuffixes = []string{"of Grindavík", "of Ísafjörður", "of Vestmannaeyjar", "of Húsavík", "of Akureyri", "of Höfn"}
)

// Reserve marks a name as taken so spawned skippers never collide with it.
func (s *Spawner) Reserve(name string) {
	s.used[name] = true
}

// Spawn creates one autonomous skipper. An archetype of -1 draws one at random.
func (s *Spawner) Spawn(arch int) Recruit {
	var a Archetype
	if arch < 0 || arch >= len(Archetypes) {
		a = Archetypes[s.src.Intn(len(Archetypes))]
	} else {
		a = Archetypes[arch]
	}

	// Karma: small bias centered on zero, -0.5..0.5.
	karma := entropy.Between(s.src, -0.5, 0.5)

	return Recruit{
		Name:       s.uniqueName(),
		Archetype:  a,
		Karma:      karma,
		Autonomous: true,
	}
}

// SpawnCrew creates n autonomous skippers, rotating through the archetypes.
func (s *Spawner) SpawnCrew(n int) []Recruit {
	crew := make([]Recruit, 0, n)
	for i := 0; i < n; i++ {
		crew = append(crew, s.Spawn(i%len(Archetypes)))
	}
	return crew
}

func (s *Spawner) uniqueName() string {
	for attempt := 0; attempt < 20; attempt++ {
		name := givenNames[s.src.Intn(len(givenNames))] + " " + boatSuffixes[s.src.Intn(len(boatSuffixes))]
		if !s.used[name] {
			s.used[name] = true
			return name
		}
	}
	// Name pool exhausted; number the skipper instead.
	name := fmt.Sprintf("Skipper %d", len(s.used)+1)
	s.used[name] = true
	return name
}
