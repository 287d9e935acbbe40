package board

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// fileSpace is one entry of a board definition file.
type fileSpace struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Price       int    `yaml:"price"`
	Rent        int    `yaml:"rent"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type boardFile struct {
	Spaces []fileSpace `yaml:"spaces"`
}

// LoadYAML reads a board definition. Ids are assigned in file order, so the
// first entry must be the start space.
//
//	spaces:
//	  - {name: Reykjavík Harbor, kind: start}
//	  - {name: Jón Páll, kind: property, category: boat, price: 100, rent: 20}
func LoadYAML(r io.Reader) (*Board, error) {
	var f boardFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode board yaml: %w", err)
	}

	spaces := make([]*Space, 0, len(f.Spaces))
	for i, fs := range f.Spaces {
		kind, err := kindByName(fs.Kind)
		if err != nil {
			return nil, fmt.Errorf("space %d: %w", i, err)
		}
		if _, ok := kind.(Property); ok {
			cat, err := ParseCategory(fs.Category)
			if err != nil {
				return nil, fmt.Errorf("space %d: %w", i, err)
			}
			kind = Property{Price: fs.Price, BaseRent: fs.Rent, Category: cat}
		}
		spaces = append(spaces, &Space{
			ID:          i,
			Name:        fs.Name,
			Kind:        kind,
			Description: fs.Description,
		})
	}
	return New(spaces)
}
