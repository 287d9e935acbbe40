package engine

import (
	"github.com/talgya/maigreifinn/internal/market"
	"github.com/talgya/maigreifinn/internal/voyage"
)

// Rules holds every tunable constant of a game. A zero field is not
// defaulted; start from DefaultRules.
type Rules struct {
	StartMoney     int `json:"start_money"`
	StartEquipment int `json:"start_equipment"`

	LapBonus        int `json:"lap_bonus"`
	LapHungerRelief int `json:"lap_hunger_relief"`
	HungerPerMove   int `json:"hunger_per_move"`
	MaxHunger       int `json:"max_hunger"`
	HungerPenalty   int `json:"hunger_penalty"` // Charged when a skipper passes out

	StormPenalty     int `json:"storm_penalty"`
	StormHunger      int `json:"storm_hunger"`
	RestaurantRelief int `json:"restaurant_relief"`

	Bail        int `json:"bail"`
	EscapeValue int `json:"escape_value"`

	OwnerSetSize int     `json:"owner_set_size"` // Properties of one category for the owner bonus
	OwnerBonus   float64 `json:"owner_bonus"`

	FateOptions int `json:"fate_options"`
	LogLimit    int `json:"log_limit"`

	Market market.Config `json:"market"`
	Voyage voyage.Config `json:"voyage"`
}

// DefaultRules returns the standard harbor rules.
func DefaultRules() Rules {
	return Rules{
		StartMoney:       1500,
		StartEquipment:   voyage.MaxCondition,
		LapBonus:         200,
		LapHungerRelief:  2,
		HungerPerMove:    1,
		MaxHunger:        10,
		HungerPenalty:    50,
		StormPenalty:     50,
		StormHunger:      2,
		RestaurantRelief: 3,
		Bail:             50,
		EscapeValue:      6,
		OwnerSetSize:     3,
		OwnerBonus:       1.5,
		FateOptions:      3,
		LogLimit:         200,
		Market:           market.DefaultConfig(),
		Voyage:           voyage.DefaultConfig(),
	}
}
