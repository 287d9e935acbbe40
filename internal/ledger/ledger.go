// Package ledger owns player and company balances and property ownership.
// Every operation is all-or-nothing: it either applies in full or returns an
// error with nothing changed.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/board"
)

var (
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrNotForSale        = errors.New("space is not for sale")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBankrupt          = errors.New("player is bankrupt")
)

// FundingMode selects which balance pays for purchases, rent, and penalties.
type FundingMode uint8

const (
	FundPersonal FundingMode = iota
	FundCompany
)

// String returns the config name of the mode.
func (m FundingMode) String() string {
	if m == FundCompany {
		return "company"
	}
	return "personal"
}

// ParseFundingMode is the inverse of FundingMode.String.
func ParseFundingMode(s string) (FundingMode, error) {
	switch s {
	case "personal", "":
		return FundPersonal, nil
	case "company":
		return FundCompany, nil
	default:
		return 0, fmt.Errorf("unknown funding mode %q", s)
	}
}

// MarshalText encodes the mode by name.
func (m FundingMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (m *FundingMode) UnmarshalText(b []byte) error {
	v, err := ParseFundingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Player is one seat at the table. Players are never removed, only flagged
// bankrupt.
type Player struct {
	ID           board.PlayerID   `json:"id"`
	Name         string           `json:"name"`
	Position     int              `json:"position"`
	Money        int              `json:"money"`
	Hunger       int              `json:"hunger"`
	Jailed       bool             `json:"jailed"`
	Bankrupt     bool             `json:"bankrupt"`
	Owned        []int            `json:"owned"`
	Autonomous   bool             `json:"autonomous"`
	Archetype    agents.Archetype `json:"archetype"`
	Karma        float64          `json:"karma"`
	CompanyID    string           `json:"company_id,omitempty"`
	BoatTier     int              `json:"boat_tier"`
	Equipment    int              `json:"equipment"`
	UpgradeSpend int              `json:"upgrade_spend"`
}

// Actor returns the policy view of the player, with the balance of whatever
// source funds them.
func (l *Ledger) Actor(p *Player) agents.Actor {
	return agents.Actor{
		Name:      p.Name,
		Money:     *l.funds(p),
		Hunger:    p.Hunger,
		Archetype: p.Archetype,
		Karma:     p.Karma,
	}
}

// Company is a pooled-capital account shared by its members.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

// Ledger is the set of accounts for one game. Player IDs are their index.
type Ledger struct {
	Mode      FundingMode         `json:"mode"`
	Players   []*Player           `json:"players"`
	Companies map[string]*Company `json:"companies,omitempty"`
}

// New creates an empty ledger.
func New(mode FundingMode) *Ledger {
	return &Ledger{Mode: mode, Companies: make(map[string]*Company)}
}

// Join seats a player, assigning the next ID.
func (l *Ledger) Join(p Player) *Player {
	p.ID = board.PlayerID(len(l.Players))
	if p.Owned == nil {
		p.Owned = []int{}
	}
	l.Players = append(l.Players, &p)
	return &p
}

// AddCompany registers a pooled account. Re-adding an ID replaces it.
func (l *Ledger) AddCompany(id, name string, balance int) *Company {
	if l.Companies == nil {
		l.Companies = make(map[string]*Company)
	}
	c := &Company{ID: id, Name: name, Balance: balance}
	l.Companies[id] = c
	return c
}

// Player returns the player with id, or nil.
func (l *Ledger) Player(id board.PlayerID) *Player {
	if id < 0 || int(id) >= len(l.Players) {
		return nil
	}
	return l.Players[id]
}

// Solvent counts players that are not bankrupt.
func (l *Ledger) Solvent() int {
	n := 0
	for _, p := range l.Players {
		if !p.Bankrupt {
			n++
		}
	}
	return n
}

// funds returns the balance that pays for p: the company in company mode
// when p belongs to one, otherwise p's own money.
func (l *Ledger) funds(p *Player) *int {
	if l.Mode == FundCompany && p.CompanyID != "" {
		if c, ok := l.Companies[p.CompanyID]; ok {
			return &c.Balance
		}
	}
	return &p.Money
}

// Balance returns the funding balance for a player, 0 if unknown.
func (l *Ledger) Balance(id board.PlayerID) int {
	p := l.Player(id)
	if p == nil {
		return 0
	}
	return *l.funds(p)
}

// Purchase buys an unowned property for the player. Funds are checked before
// anything changes.
func (l *Ledger) Purchase(id board.PlayerID, sp *board.Space) error {
	p := l.Player(id)
	if p == nil {
		return fmt.Errorf("purchase: %w: %d", ErrUnknownPlayer, id)
	}
	if p.Bankrupt {
		return fmt.Errorf("purchase: %w: %s", ErrBankrupt, p.Name)
	}
	if sp == nil {
		return fmt.Errorf("purchase: %w", ErrNotForSale)
	}
	prop, ok := sp.Property()
	if !ok || sp.IsOwned() {
		return fmt.Errorf("purchase %s: %w", sp.Name, ErrNotForSale)
	}
	bal := l.funds(p)
	if *bal < prop.Price {
		return fmt.Errorf("purchase %s: %w: need %d, have %d", sp.Name, ErrInsufficientFunds, prop.Price, *bal)
	}

	*bal -= prop.Price
	p.Owned = append(p.Owned, sp.ID)
	owner := p.ID
	sp.Owner = &owner
	return nil
}

// RentResult reports how a rent settlement ended.
type RentResult struct {
	Amount   int  `json:"amount"`
	Paid     bool `json:"paid"`
	Bankrupt bool `json:"bankrupt"`
}

// SettleRent moves amount from payer to owner. A payer who cannot cover it
// goes bankrupt with their balance cleared, and the owner receives nothing.
func (l *Ledger) SettleRent(payer, owner board.PlayerID, amount int) (RentResult, error) {
	from, to := l.Player(payer), l.Player(owner)
	if from == nil || to == nil {
		return RentResult{}, fmt.Errorf("settle rent: %w", ErrUnknownPlayer)
	}
	res := RentResult{Amount: amount}
	if amount <= 0 {
		res.Paid = true
		return res, nil
	}

	src := l.funds(from)
	if *src < amount {
		*src = 0
		from.Bankrupt = true
		res.Bankrupt = true
		return res, nil
	}
	*src -= amount
	*l.funds(to) += amount
	res.Paid = true
	return res, nil
}

// Adjust applies a signed change to the player's funding balance, clamped at
// zero. It never bankrupts. Returns the delta actually applied.
func (l *Ledger) Adjust(id board.PlayerID, delta int) int {
	p := l.Player(id)
	if p == nil {
		return 0
	}
	bal := l.funds(p)
	if *bal+delta < 0 {
		delta = -*bal
	}
	*bal += delta
	return delta
}

// Spend debits amount only if the balance covers it in full.
func (l *Ledger) Spend(id board.PlayerID, amount int) error {
	p := l.Player(id)
	if p == nil {
		return fmt.Errorf("spend: %w: %d", ErrUnknownPlayer, id)
	}
	bal := l.funds(p)
	if *bal < amount {
		return fmt.Errorf("spend %d: %w: have %d", amount, ErrInsufficientFunds, *bal)
	}
	*bal -= amount
	return nil
}

// Release returns every property the player owns to the bank, clearing
// owners on the board. Used when a player goes bankrupt.
func (l *Ledger) Release(id board.PlayerID, b *board.Board) []int {
	p := l.Player(id)
	if p == nil {
		return nil
	}
	released := p.Owned
	for _, sid := range released {
		if sp := b.At(sid); sp != nil && sp.OwnedBy(id) {
			sp.Owner = nil
		}
	}
	p.Owned = []int{}
	return released
}

// CountOwned returns how many properties of a category the player holds.
func (l *Ledger) CountOwned(id board.PlayerID, b *board.Board, c board.Category) int {
	p := l.Player(id)
	if p == nil {
		return 0
	}
	n := 0
	for _, sid := range p.Owned {
		if prop, ok := b.At(sid).Property(); ok && prop.Category == c {
			n++
		}
	}
	return n
}

// DepreciationPct is the share of purchase price an asset keeps in net worth.
const DepreciationPct = 70

// NetWorth is the funding balance plus depreciated property and boat value.
func (l *Ledger) NetWorth(id board.PlayerID, b *board.Board) int {
	p := l.Player(id)
	if p == nil {
		return 0
	}
	assets := p.UpgradeSpend
	for _, sid := range p.Owned {
		if prop, ok := b.At(sid).Property(); ok {
			assets += prop.Price
		}
	}
	return *l.funds(p) + assets*DepreciationPct/100
}

// Standing is one row of the leaderboard.
type Standing struct {
	ID       board.PlayerID `json:"id"`
	Name     string         `json:"name"`
	Money    int            `json:"money"`
	NetWorth int            `json:"net_worth"`
	Owned    int            `json:"owned"`
	Bankrupt bool           `json:"bankrupt"`
}

// Standings ranks players by net worth, solvent players first.
func (l *Ledger) Standings(b *board.Board) []Standing {
	out := make([]Standing, 0, len(l.Players))
	for _, p := range l.Players {
		out = append(out, Standing{
			ID:       p.ID,
			Name:     p.Name,
			Money:    *l.funds(p),
			NetWorth: l.NetWorth(p.ID, b),
			Owned:    len(p.Owned),
			Bankrupt: p.Bankrupt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bankrupt != out[j].Bankrupt {
			return !out[i].Bankrupt
		}
		return out[i].NetWorth > out[j].NetWorth
	})
	return out
}

// Clone deep-copies the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{Mode: l.Mode, Players: make([]*Player, len(l.Players)), Companies: make(map[string]*Company, len(l.Companies))}
	for i, p := range l.Players {
		cp := *p
		cp.Owned = append([]int{}, p.Owned...)
		c.Players[i] = &cp
	}
	for id, co := range l.Companies {
		cc := *co
		c.Companies[id] = &cc
	}
	return c
}

// Validate checks that ownership on the board and in the ledger agree.
func (l *Ledger) Validate(b *board.Board) error {
	for i, p := range l.Players {
		if p.ID != board.PlayerID(i) {
			return fmt.Errorf("player %d has id %d", i, p.ID)
		}
		if p.Money < 0 {
			return fmt.Errorf("player %s has negative money %d", p.Name, p.Money)
		}
		if p.Position < 0 || p.Position >= b.Len() {
			return fmt.Errorf("player %s position %d off board", p.Name, p.Position)
		}
		for _, sid := range p.Owned {
			sp := b.At(sid)
			if sp == nil || !sp.OwnedBy(p.ID) {
				return fmt.Errorf("player %s claims space %d the board does not give them", p.Name, sid)
			}
		}
		if p.CompanyID != "" && l.Mode == FundCompany {
			if _, ok := l.Companies[p.CompanyID]; !ok {
				return fmt.Errorf("player %s in unknown company %q", p.Name, p.CompanyID)
			}
		}
	}
	for _, sp := range b.Spaces {
		if sp.Owner != nil && l.Player(*sp.Owner) == nil {
			return fmt.Errorf("space %d owned by unknown player %d", sp.ID, *sp.Owner)
		}
	}
	for id, co := range l.Companies {
		if co.Balance < 0 {
			return fmt.Errorf("company %s has negative balance", id)
		}
	}
	return nil
}

// ClampHunger applies delta to the player's hunger within [0, max] and
// returns the new value.
func ClampHunger(p *Player, delta, max int) int {
	p.Hunger = clamp(p.Hunger+delta, 0, max)
	return p.Hunger
}

// ClampEquipment applies delta to equipment condition within [0, max].
func ClampEquipment(p *Player, delta, max int) int {
	p.Equipment = clamp(p.Equipment+delta, 0, max)
	return p.Equipment
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
