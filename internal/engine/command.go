package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/maigreifinn/internal/fate"
)

var (
	// ErrWrongPhase rejects a command that does not match the current phase.
	// Nothing is changed.
	ErrWrongPhase = errors.New("command not valid in current phase")

	// ErrBadIndex rejects an out-of-range option, tile, or space index.
	ErrBadIndex = errors.New("index out of range")

	ErrUnknownCommand = errors.New("unknown command")
)

// CommandType names one entry of the command surface.
type CommandType string

const (
	CmdRoll          CommandType = "roll"
	CmdBuy           CommandType = "buy"
	CmdPass          CommandType = "pass"
	CmdPayBail       CommandType = "pay_bail"
	CmdAttemptEscape CommandType = "attempt_escape"
	CmdChooseFate    CommandType = "choose_fate"
	CmdBuyUpgrade    CommandType = "buy_upgrade"
	CmdEnterVoyage   CommandType = "enter_voyage"
	CmdRevealTile    CommandType = "reveal_tile"
	CmdReturnToPort  CommandType = "return_to_port"

	// System commands carry content-generation results back into the game.
	// They are accepted in any phase.
	CmdMergeContent    CommandType = "merge_content"
	CmdAddFateOutcomes CommandType = "add_fate_outcomes"
)

// Content is generated flavor for one space.
type Content struct {
	SpaceID     int    `json:"space_id"`
	Description string `json:"description"`
	ImageRef    string `json:"image_ref,omitempty"`
}

// Command is one input to Game.Apply.
type Command struct {
	Type    CommandType    `json:"type"`
	Index   int            `json:"index,omitempty"`
	Content *Content       `json:"content,omitempty"`
	Fates   []fate.Outcome `json:"fates,omitempty"`
}

// Convenience constructors.
func Roll() Command                  { return Command{Type: CmdRoll} }
func Buy() Command                   { return Command{Type: CmdBuy} }
func Pass() Command                  { return Command{Type: CmdPass} }
func PayBail() Command               { return Command{Type: CmdPayBail} }
func AttemptEscape() Command         { return Command{Type: CmdAttemptEscape} }
func ChooseFate(i int) Command       { return Command{Type: CmdChooseFate, Index: i} }
func BuyUpgrade(i int) Command       { return Command{Type: CmdBuyUpgrade, Index: i} }
func EnterVoyage() Command           { return Command{Type: CmdEnterVoyage} }
func RevealTile(i int) Command       { return Command{Type: CmdRevealTile, Index: i} }
func ReturnToPort() Command          { return Command{Type: CmdReturnToPort} }
func MergeContent(c Content) Command { return Command{Type: CmdMergeContent, Content: &c} }
func AddFateOutcomes(o ...fate.Outcome) Command {
	return Command{Type: CmdAddFateOutcomes, Fates: o}
}

// System reports whether the command bypasses phase checks.
func (c Command) System() bool {
	return c.Type == CmdMergeContent || c.Type == CmdAddFateOutcomes
}

// accepts lists the phases each player command is valid in.
var accepts = map[CommandType][]Phase{
	CmdRoll:          {PhaseIdle},
	CmdBuy:           {PhasePurchaseDecision},
	CmdPass:          {PhasePurchaseDecision, PhaseShipyardMenu, PhaseVoyagePrompt},
	CmdPayBail:       {PhaseJailDecision},
	CmdAttemptEscape: {PhaseJailDecision},
	CmdChooseFate:    {PhaseFateChoice},
	CmdBuyUpgrade:    {PhaseShipyardMenu},
	CmdEnterVoyage:   {PhaseVoyagePrompt},
	CmdRevealTile:    {PhaseVoyage},
	CmdReturnToPort:  {PhaseVoyage},
}

func (c Command) check(phase Phase) error {
	if c.System() {
		return nil
	}
	phases, ok := accepts[c.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
	}
	for _, p := range phases {
		if p == phase {
			return nil
		}
	}
	return fmt.Errorf("%w: %s during %s", ErrWrongPhase, c.Type, phase)
}
