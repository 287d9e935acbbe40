// Package board provides the circular harbor track: an ordered list of typed
// spaces with pure lookups. Space kinds are a closed set; Visitor gives every
// consumer a compile-time checklist of them.
package board

import (
	"encoding/json"
	"fmt"
)

// PlayerID identifies a seat in the roster. Space ownership refers to it.
type PlayerID int

// Category groups properties for rent multipliers and perks.
type Category uint8

const (
	CategoryBoat       Category = iota // Rent follows the fish price
	CategoryRestaurant                 // Rent follows the food price; meals relieve hunger
)

// String returns the lowercase category name used in JSON and YAML.
func (c Category) String() string {
	switch c {
	case CategoryBoat:
		return "boat"
	case CategoryRestaurant:
		return "restaurant"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "boat":
		return CategoryBoat, nil
	case "restaurant":
		return CategoryRestaurant, nil
	default:
		return 0, fmt.Errorf("unknown property category %q", s)
	}
}

// Kind is the closed sum of space types. Only this package implements it.
type Kind interface {
	Accept(v Visitor)
	Name() string
	sealed()
}

// Visitor has one method per Kind. Adding a kind adds a method here, which
// stops every implementation from compiling until it handles the new case.
type Visitor interface {
	VisitStart(Start)
	VisitFree(Free)
	VisitProperty(Property)
	VisitChance(Chance)
	VisitStorm(Storm)
	VisitJail(Jail)
	VisitGoToJail(GoToJail)
	VisitShipyard(Shipyard)
	VisitFishingGrounds(FishingGrounds)
}

// Start is the harbor where every player begins.
type Start struct{}

// Free is a safe pier with no effect.
type Free struct{}

// Property can be bought and collects rent.
type Property struct {
	Price    int      `json:"price"`
	BaseRent int      `json:"base_rent"`
	Category Category `json:"-"`
}

// Chance offers a menu of fate outcomes.
type Chance struct{}

// Storm costs money and supplies.
type Storm struct{}

// Jail is the net; landing here jails the player.
type Jail struct{}

// GoToJail sends the player to the jail space.
type GoToJail struct{}

// Shipyard sells boat and equipment upgrades.
type Shipyard struct{}

// FishingGrounds opens a voyage.
type FishingGrounds struct{}

func (k Start) Accept(v Visitor)          { v.VisitStart(k) }
func (k Free) Accept(v Visitor)           { v.VisitFree(k) }
func (k Property) Accept(v Visitor)       { v.VisitProperty(k) }
func (k Chance) Accept(v Visitor)         { v.VisitChance(k) }
func (k Storm) Accept(v Visitor)          { v.VisitStorm(k) }
func (k Jail) Accept(v Visitor)           { v.VisitJail(k) }
func (k GoToJail) Accept(v Visitor)       { v.VisitGoToJail(k) }
func (k Shipyard) Accept(v Visitor)       { v.VisitShipyard(k) }
func (k FishingGrounds) Accept(v Visitor) { v.VisitFishingGrounds(k) }

func (Start) Name() string          { return "start" }
func (Free) Name() string           { return "free" }
func (Property) Name() string       { return "property" }
func (Chance) Name() string         { return "chance" }
func (Storm) Name() string          { return "storm" }
func (Jail) Name() string           { return "jail" }
func (GoToJail) Name() string       { return "go_to_jail" }
func (Shipyard) Name() string       { return "shipyard" }
func (FishingGrounds) Name() string { return "fishing" }

func (Start) sealed()          {}
func (Free) sealed()           {}
func (Property) sealed()       {}
func (Chance) sealed()         {}
func (Storm) sealed()          {}
func (Jail) sealed()           {}
func (GoToJail) sealed()       {}
func (Shipyard) sealed()       {}
func (FishingGrounds) sealed() {}

// kindByName builds a zero-valued Kind from its wire name.
func kindByName(name string) (Kind, error) {
	switch name {
	case "start":
		return Start{}, nil
	case "free":
		return Free{}, nil
	case "property":
		return Property{}, nil
	case "chance":
		return Chance{}, nil
	case "storm":
		return Storm{}, nil
	case "jail":
		return Jail{}, nil
	case "go_to_jail":
		return GoToJail{}, nil
	case "shipyard":
		return Shipyard{}, nil
	case "fishing":
		return FishingGrounds{}, nil
	default:
		return nil, fmt.Errorf("unknown space kind %q", name)
	}
}

// Space is one cell of the track. Kind never changes after the board is
// built; Owner is written only by the ledger, and only for properties.
type Space struct {
	ID          int
	Name        string
	Kind        Kind
	Owner       *PlayerID
	Description string
	ImageRef    string
	Generated   bool // Description/image came from the content generator
}

// Property returns the property terms and true if the space is a property.
// A nil space is not a property.
func (s *Space) Property() (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	p, ok := s.Kind.(Property)
	return p, ok
}

// IsOwned reports whether any player owns the space.
func (s *Space) IsOwned() bool {
	return s.Owner != nil
}

// OwnedBy reports whether id owns the space.
func (s *Space) OwnedBy(id PlayerID) bool {
	return s.Owner != nil && *s.Owner == id
}

type spaceJSON struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Price       int       `json:"price,omitempty"`
	BaseRent    int       `json:"base_rent,omitempty"`
	Category    string    `json:"category,omitempty"`
	Owner       *PlayerID `json:"owner,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"`
	Generated   bool      `json:"generated,omitempty"`
}

// MarshalJSON writes the kind as a discriminator string.
func (s Space) MarshalJSON() ([]byte, error) {
	out := spaceJSON{
		ID:          s.ID,
		Name:        s.Name,
		Owner:       s.Owner,
		Description: s.Description,
		ImageRef:    s.ImageRef,
		Generated:   s.Generated,
	}
	if s.Kind != nil {
		out.Kind = s.Kind.Name()
	}
	if p, ok := s.Kind.(Property); ok {
		out.Price = p.Price
		out.BaseRent = p.BaseRent
		out.Category = p.Category.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the kind from its discriminator.
func (s *Space) UnmarshalJSON(data []byte) error {
	var in spaceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := kindByName(in.Kind)
	if err != nil {
		return err
	}
	if _, ok := kind.(Property); ok {
		cat, err := ParseCategory(in.Category)
		if err != nil {
			return err
		}
		kind = Property{Price: in.Price, BaseRent: in.BaseRent, Category: cat}
	}
	*s = Space{
		ID:          in.ID,
		Name:        in.Name,
		Kind:        kind,
		Owner:       in.Owner,
		Description: in.Description,
		ImageRef:    in.ImageRef,
		Generated:   in.Generated,
	}
	return nil
}
