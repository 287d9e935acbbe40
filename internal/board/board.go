package board

import (
	"errors"
	"fmt"
)

// Board holds the ordered track. Space i always has ID i.
type Board struct {
	Spaces []*Space `json:"spaces"`
}

// New validates spaces and wraps them in a Board.
func New(spaces []*Space) (*Board, error) {
	b := &Board{Spaces: spaces}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the structural invariants of the track.
func (b *Board) Validate() error {
	if len(b.Spaces) < 2 {
		return errors.New("board needs at least two spaces")
	}
	hasJail, hasGoToJail := false, false
	for i, s := range b.Spaces {
		if s == nil {
			return fmt.Errorf("space %d is nil", i)
		}
		if s.ID != i {
			return fmt.Errorf("space at index %d has id %d", i, s.ID)
		}
		if s.Kind == nil {
			return fmt.Errorf("space %d has no kind", i)
		}
		switch k := s.Kind.(type) {
		case Start:
			if i != 0 {
				return fmt.Errorf("start space must be id 0, found at %d", i)
			}
		case Property:
			if k.Price <= 0 || k.BaseRent <= 0 {
				return fmt.Errorf("property %d (%s) needs positive price and rent", i, s.Name)
			}
		case Jail:
			hasJail = true
		case GoToJail:
			hasGoToJail = true
		}
		if s.Owner != nil {
			if _, ok := s.Kind.(Property); !ok {
				return fmt.Errorf("space %d is owned but not a property", i)
			}
		}
	}
	if _, ok := b.Spaces[0].Kind.(Start); !ok {
		return errors.New("space 0 must be the start space")
	}
	if hasGoToJail && !hasJail {
		return errors.New("go-to-jail space needs a jail space")
	}
	return nil
}

// Len returns the number of spaces on the track.
func (b *Board) Len() int {
	return len(b.Spaces)
}

// At returns the space with the given id, or nil if out of range.
func (b *Board) At(id int) *Space {
	if id < 0 || id >= len(b.Spaces) {
		return nil
	}
	return b.Spaces[id]
}

// JailID returns the id of the first jail space, or -1 when the board has none.
func (b *Board) JailID() int {
	for _, s := range b.Spaces {
		if _, ok := s.Kind.(Jail); ok {
			return s.ID
		}
	}
	return -1
}

// PropertiesOf returns the ids of all properties in a category.
func (b *Board) PropertiesOf(c Category) []int {
	var ids []int
	for _, s := range b.Spaces {
		if p, ok := s.Kind.(Property); ok && p.Category == c {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Clone returns a deep copy, so snapshots never alias live state.
func (b *Board) Clone() *Board {
	out := &Board{Spaces: make([]*Space, len(b.Spaces))}
	for i, s := range b.Spaces {
		c := *s
		if s.Owner != nil {
			o := *s.Owner
			c.Owner = &o
		}
		out.Spaces[i] = &c
	}
	return out
}

// String returns a summary of the board.
func (b *Board) String() string {
	return fmt.Sprintf("Board(spaces=%d, properties=%d)",
		b.Len(), len(b.PropertiesOf(CategoryBoat))+len(b.PropertiesOf(CategoryRestaurant)))
}

func boat(id int, name string, price, rent int, desc string) *Space {
	return &Space{ID: id, Name: name, Kind: Property{Price: price, BaseRent: rent, Category: CategoryBoat}, Description: desc}
}

func restaurant(id int, name string, price, rent int, desc string) *Space {
	return &Space{ID: id, Name: name, Kind: Property{Price: price, BaseRent: rent, Category: CategoryRestaurant}, Description: desc}
}

// Default returns the standard 20-space Reykjavík harbor track.
func Default() *Board {
	return &Board{Spaces: []*Space{
		{ID: 0, Name: "Reykjavík Harbor", Kind: Start{}, Description: "Start here. Collect your lap bonus."},
		boat(1, "Jón Páll", 100, 20, "A sturdy dinghy."),
		{ID: 2, Name: "Sjómannalífið", Kind: Chance{}, Description: "Fate of the sea."},
		restaurant(3, "Kjallarinn", 150, 30, "Dark but cozy."),
		boat(4, "Gunnvör", 180, 35, "Known for big catches."),
		{ID: 5, Name: "Stormur", Kind: Storm{}, Description: "Rough seas ahead."},
		restaurant(6, "Humarvagninn", 200, 40, "Best soup in town."),
		boat(7, "Sæbjörg", 220, 45, "Old rescue boat."),
		{ID: 8, Name: "Slippurinn", Kind: Shipyard{}, Description: "Hulls, nets and sonar for sale."},
		{ID: 9, Name: "Free Parking", Kind: Free{}, Description: "Just a pier to rest."},
		boat(10, "Harpa", 240, 50, "Shiny and new."),
		{ID: 11, Name: "Sjómannalífið", Kind: Chance{}, Description: "Fate of the sea."},
		restaurant(12, "Sægreifinn", 350, 70, "The legend itself."),
		{ID: 13, Name: "Miðin", Kind: FishingGrounds{}, Description: "The cod are running."},
		boat(14, "Sjóli", 260, 55, "Fast trawler."),
		{ID: 15, Name: "Sea Jail", Kind: Jail{}, Description: "Stuck in a net."},
		boat(16, "Moby Dick", 300, 60, "The white whale hunter."),
		restaurant(17, "Bryggjan", 280, 60, "Coffee and cakes."),
		{ID: 18, Name: "Landhelgisgæslan", Kind: GoToJail{}, Description: "The coast guard boards you."},
		{ID: 19, Name: "Faxaflói", Kind: FishingGrounds{}, Description: "Bay waters, shallow and rich."},
	}}
}
