package engine

import "fmt"

// Phase is the turn scheduler state. Rolling, Moving, LandingResolution and
// EndTurn are transient: a game at rest is never left in them, they only
// show up on emitted events.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRolling
	PhaseMoving
	PhaseLandingResolution
	PhasePurchaseDecision
	PhaseFateChoice
	PhaseJailDecision
	PhaseShipyardMenu
	PhaseVoyagePrompt
	PhaseVoyage
	PhaseEndTurn
	PhaseGameOver
)

var phaseNames = [...]string{
	PhaseIdle:              "IDLE",
	PhaseRolling:           "ROLLING",
	PhaseMoving:            "MOVING",
	PhaseLandingResolution: "LANDING_RESOLUTION",
	PhasePurchaseDecision:  "PURCHASE_DECISION",
	PhaseFateChoice:        "FATE_CHOICE",
	PhaseJailDecision:      "JAIL_DECISION",
	PhaseShipyardMenu:      "SHIPYARD_MENU",
	PhaseVoyagePrompt:      "VOYAGE_PROMPT",
	PhaseVoyage:            "VOYAGE",
	PhaseEndTurn:           "END_TURN",
	PhaseGameOver:          "GAME_OVER",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// Suspended reports whether the phase waits on a human command.
func (p Phase) Suspended() bool {
	switch p {
	case PhasePurchaseDecision, PhaseFateChoice, PhaseJailDecision,
		PhaseShipyardMenu, PhaseVoyagePrompt, PhaseVoyage:
		return true
	}
	return false
}

// Transient reports whether the phase only appears mid-command.
func (p Phase) Transient() bool {
	switch p {
	case PhaseRolling, PhaseMoving, PhaseLandingResolution, PhaseEndTurn:
		return true
	}
	return false
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, n := range phaseNames {
		if n == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}
