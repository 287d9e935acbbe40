package engine

import "github.com/talgya/maigreifinn/internal/board"

// Event is a notable occurrence in the game, emitted by Apply and kept in
// the game log.
type Event struct {
	Seq         uint64         `json:"seq"`
	Round       int            `json:"round"`
	Type        string         `json:"type"`
	Phase       Phase          `json:"phase"`
	Player      board.PlayerID `json:"player"`
	Space       int            `json:"space"`
	Amount      int            `json:"amount,omitempty"`
	Description string         `json:"description"`
}

// Event types.
const (
	EvRolled          = "rolled"
	EvMoved           = "moved"
	EvLap             = "lap"
	EvMarket          = "market"
	EvPassedOut       = "passed_out"
	EvLanded          = "landed"
	EvPurchased       = "purchased"
	EvPassed          = "passed"
	EvPurchasePrompt  = "purchase_prompt"
	EvRentPaid        = "rent_paid"
	EvBankrupt        = "bankrupt"
	EvMeal            = "meal"
	EvStorm           = "storm"
	EvJailed          = "jailed"
	EvBailPaid        = "bail_paid"
	EvEscaped         = "escaped"
	EvEscapeFailed    = "escape_failed"
	EvFateOffered     = "fate_offered"
	EvFateApplied     = "fate_applied"
	EvShipyardOffered = "shipyard_offered"
	EvUpgraded        = "upgraded"
	EvVoyagePrompt    = "voyage_prompt"
	EvVoyageStarted   = "voyage_started"
	EvTileRevealed    = "tile_revealed"
	EvReturnedToPort  = "returned_to_port"
	EvCatch           = "catch"
	EvTurnEnded       = "turn_ended"
	EvTurnStarted     = "turn_started"
	EvGameOver        = "game_over"
	EvContentMerged   = "content_merged"
	EvFatesAdded      = "fates_added"
)
