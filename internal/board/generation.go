// Board generation using simplex noise.
// The layout pattern is fixed; property prices drift along the track with a
// smooth noise curve so neighboring berths cost about the same.
package board

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds board generation parameters.
type GenConfig struct {
	Laps      int     // Repeats of the base pattern (1 = 20 spaces)
	Seed      int64   // Noise seed
	BasePrice int     // Price of the cheapest property before noise
	PriceStep int     // Price increase per property along the track
	Jitter    float64 // Max fractional price deviation from noise (0.0–1.0)
	RentRatio float64 // Base rent as a fraction of price
}

// DefaultGenConfig returns a configuration close to the default track.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Laps:      1,
		Seed:      42,
		BasePrice: 100,
		PriceStep: 20,
		Jitter:    0.15,
		RentRatio: 0.2,
	}
}

// pattern is one lap of the generated track; 'B' boat, 'R' restaurant.
var pattern = []byte("SBCRBXRBYFBCRHBJBRGH")

var (
	boatNames       = []string{"Jón Páll", "Gunnvör", "Sæbjörg", "Harpa", "Sjóli", "Moby Dick", "Hrafn", "Ölver"}
	restaurantNames = []string{"Kjallarinn", "Humarvagninn", "Sægreifinn", "Bryggjan", "Kaffivagninn", "Bæjarins Beztu"}
)

// Generate creates a board from the fixed pattern with noise-perturbed prices.
func Generate(cfg GenConfig) (*Board, error) {
	if cfg.Laps < 1 {
		cfg.Laps = 1
	}
	noise := opensimplex.NewNormalized(cfg.Seed)

	var spaces []*Space
	props, boats, rests := 0, 0, 0
	for lap := 0; lap < cfg.Laps; lap++ {
		for _, c := range pattern {
			id := len(spaces)
			var s *Space
			switch c {
			case 'S':
				if id == 0 {
					s = &Space{Kind: Start{}, Name: "Reykjavík Harbor"}
				} else {
					s = &Space{Kind: Free{}, Name: "Harbor Pier"}
				}
			case 'C':
				s = &Space{Kind: Chance{}, Name: "Sjómannalífið"}
			case 'X':
				s = &Space{Kind: Storm{}, Name: "Stormur"}
			case 'Y':
				s = &Space{Kind: Shipyard{}, Name: "Slippurinn"}
			case 'F':
				s = &Space{Kind: Free{}, Name: "Free Parking"}
			case 'H':
				s = &Space{Kind: FishingGrounds{}, Name: "Miðin"}
			case 'J':
				s = &Space{Kind: Jail{}, Name: "Sea Jail"}
			case 'G':
				s = &Space{Kind: GoToJail{}, Name: "Landhelgisgæslan"}
			case 'B', 'R':
				price := noisyPrice(noise, cfg, props, id)
				rent := int(math.Max(1, math.Round(float64(price)*cfg.RentRatio)))
				var cat Category
				var name string
				if c == 'R' {
					cat = CategoryRestaurant
					name = nameFrom(restaurantNames, rests)
					rests++
				} else {
					cat = CategoryBoat
					name = nameFrom(boatNames, boats)
					boats++
				}
				s = &Space{Kind: Property{Price: price, BaseRent: rent, Category: cat}, Name: name}
				props++
			}
			s.ID = id
			spaces = append(spaces, s)
		}
	}
	return New(spaces)
}

// noisyPrice walks the track with a 1-D noise sample per space.
func noisyPrice(noise opensimplex.Noise, cfg GenConfig, index, id int) int {
	base := float64(cfg.BasePrice + index*cfg.PriceStep)
	n := octaveNoise(noise, float64(id)*0.35, 0, 3, 1.0, 0.5) // 0..1
	dev := (n*2 - 1) * cfg.Jitter
	price := base * (1 + dev)
	// Round to the nearest 10 kr like the printed board.
	return int(math.Max(10, math.Round(price/10)*10))
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func nameFrom(names []string, n int) string {
	if n < len(names) {
		return names[n]
	}
	return fmt.Sprintf("%s %d", names[n%len(names)], n/len(names)+1)
}
