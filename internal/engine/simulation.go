// Game ties the board, ledger, market and sub-engines together and advances
// them one command at a time.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/fate"
	"github.com/talgya/maigreifinn/internal/ledger"
	"github.com/talgya/maigreifinn/internal/market"
	"github.com/talgya/maigreifinn/internal/voyage"
)

// Turn is the scheduler position.
type Turn struct {
	Active int             `json:"active"` // Index into the ledger's players
	Round  int             `json:"round"`
	Phase  Phase           `json:"phase"`
	Winner *board.PlayerID `json:"winner,omitempty"`
}

// Game holds the complete state of one table. It is not safe for concurrent
// use; Table serializes access.
type Game struct {
	Board   *board.Board
	Ledger  *ledger.Ledger
	Market  market.State
	History *market.History
	Rules   Rules
	Turn    Turn

	Pending []fate.Outcome   // Fate menu awaiting a choice
	Offers  []voyage.Upgrade // Shipyard menu awaiting a choice
	Session *voyage.Session  // Active voyage

	Log []Event // Most recent events, capped at Rules.LogLimit

	seq      uint64
	src      entropy.Source
	fates    *fate.Resolver
	shipyard []voyage.Upgrade
	out      []Event
}

// Setup describes a new game.
type Setup struct {
	Board    *board.Board
	Rules    Rules
	Mode     ledger.FundingMode
	Seats    []agents.Recruit
	Fates    *fate.Resolver   // Nil uses the default catalog
	Shipyard []voyage.Upgrade // Nil uses the default catalog
}

// NewGame seats players and opens the first turn.
func NewGame(s Setup, src entropy.Source) (*Game, error) {
	if s.Board == nil {
		return nil, fmt.Errorf("new game: no board")
	}
	if err := s.Board.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	if len(s.Seats) == 0 {
		return nil, fmt.Errorf("new game: no players")
	}

	l := ledger.New(s.Mode)
	for _, r := range s.Seats {
		p := ledger.Player{
			Name:       r.Name,
			Money:      s.Rules.StartMoney,
			Autonomous: r.Autonomous,
			Archetype:  r.Archetype,
			Karma:      r.Karma,
			Equipment:  s.Rules.StartEquipment,
		}
		// Company members pay their stake into the pool.
		if s.Mode == ledger.FundCompany && r.Company != "" {
			c := l.Companies[r.Company]
			if c == nil {
				c = l.AddCompany(r.Company, r.Company, 0)
			}
			c.Balance += s.Rules.StartMoney
			p.Money = 0
			p.CompanyID = r.Company
		}
		l.Join(p)
	}

	g := newGame(s.Board, l, s.Rules, s.Fates, s.Shipyard, src)
	g.Market = market.Initial()
	g.History.Record(g.Market)
	g.startTurn()

	slog.Info("game started", "players", len(l.Players), "board", s.Board.String())
	return g, nil
}

func newGame(b *board.Board, l *ledger.Ledger, rules Rules, fates *fate.Resolver, yard []voyage.Upgrade, src entropy.Source) *Game {
	if fates == nil {
		fates = fate.NewResolver(fate.DefaultCatalog(), 0)
	}
	if yard == nil {
		yard = voyage.Catalog()
	}
	return &Game{
		Board:    b,
		Ledger:   l,
		History:  market.NewHistory(50),
		Rules:    rules,
		src:      src,
		fates:    fates,
		shipyard: yard,
	}
}

// Active returns the player whose turn it is.
func (g *Game) Active() *ledger.Player {
	return g.Ledger.Players[g.Turn.Active]
}

// Fates exposes the fate resolver so generated outcomes can be inspected.
func (g *Game) Fates() *fate.Resolver { return g.fates }

// Apply runs one command against the game. A rejected command returns an
// error and leaves the game untouched; otherwise the events it caused are
// returned in order.
func (g *Game) Apply(cmd Command) ([]Event, error) {
	if err := cmd.check(g.Turn.Phase); err != nil {
		slog.Debug("command rejected", "cmd", cmd.Type, "phase", g.Turn.Phase, "err", err)
		return nil, err
	}
	g.out = nil

	var err error
	switch cmd.Type {
	case CmdRoll:
		g.roll()
	case CmdBuy:
		err = g.buy()
	case CmdPass:
		g.pass()
	case CmdPayBail:
		err = g.payBail()
	case CmdAttemptEscape:
		g.attemptEscape()
	case CmdChooseFate:
		err = g.chooseFate(cmd.Index)
	case CmdBuyUpgrade:
		err = g.buyUpgradeCmd(cmd.Index)
	case CmdEnterVoyage:
		g.enterVoyage()
	case CmdRevealTile:
		err = g.revealTile(cmd.Index)
	case CmdReturnToPort:
		g.returnToPort()
	case CmdMergeContent:
		err = g.mergeContent(cmd.Content)
	case CmdAddFateOutcomes:
		g.addFates(cmd.Fates)
	}
	if err != nil {
		slog.Debug("command rejected", "cmd", cmd.Type, "err", err)
		return nil, err
	}

	out := g.out
	g.out = nil
	return out, nil
}

// emit records an event for the active player.
func (g *Game) emit(typ string, amount int, format string, args ...any) {
	p := g.Active()
	g.seq++
	ev := Event{
		Seq:         g.seq,
		Round:       g.Turn.Round,
		Type:        typ,
		Phase:       g.Turn.Phase,
		Player:      p.ID,
		Space:       p.Position,
		Amount:      amount,
		Description: fmt.Sprintf(format, args...),
	}
	g.out = append(g.out, ev)
	g.Log = append(g.Log, ev)
	if g.Rules.LogLimit > 0 && len(g.Log) > g.Rules.LogLimit {
		g.Log = g.Log[len(g.Log)-g.Rules.LogLimit:]
	}
}

// --- Turn flow ---

func (g *Game) startTurn() {
	p := g.Active()
	g.Turn.Phase = PhaseIdle
	if p.Jailed && !p.Autonomous {
		g.Turn.Phase = PhaseJailDecision
	}
	g.emit(EvTurnStarted, 0, "%s's turn", p.Name)
}

func (g *Game) roll() {
	p := g.Active()
	if p.Autonomous && p.Jailed {
		if agents.DecideBail(g.Ledger.Actor(p), g.Rules.Bail, g.src) && g.Ledger.Spend(p.ID, g.Rules.Bail) == nil {
			p.Jailed = false
			g.emit(EvBailPaid, g.Rules.Bail, "%s pays bail", p.Name)
		} else {
			g.attemptEscape()
			return
		}
	}

	g.Turn.Phase = PhaseRolling
	n := entropy.RollDie(g.src)
	g.emit(EvRolled, n, "%s rolls %d", p.Name, n)
	g.advance(p, n)
}

// advance moves, lands, and ends the turn unless landing suspends it.
func (g *Game) advance(p *ledger.Player, steps int) {
	g.move(p, steps)
	if g.land(p) {
		return
	}
	g.endTurn()
}

func (g *Game) move(p *ledger.Player, steps int) {
	g.Turn.Phase = PhaseMoving
	n := g.Board.Len()
	old := p.Position
	laps := (old + steps) / n
	p.Position = (old + steps) % n
	g.emit(EvMoved, steps, "%s sails from %d to %d", p.Name, old, p.Position)

	// Judged on the hunger carried into the move, before any lap meal.
	passOut := p.Hunger+g.Rules.HungerPerMove >= g.Rules.MaxHunger

	for i := 0; i < laps; i++ {
		g.Ledger.Adjust(p.ID, g.Rules.LapBonus)
		ledger.ClampHunger(p, -g.Rules.LapHungerRelief, g.Rules.MaxHunger)
		g.Turn.Round++
		g.emit(EvLap, g.Rules.LapBonus, "%s completes a lap", p.Name)

		g.Market = market.Advance(g.src, g.Rules.Market, g.Turn.Round)
		g.History.Record(g.Market)
		g.emit(EvMarket, 0, "market %s: fish %.2f, food %.2f", g.Market.Trend,
			g.Market.Prices[market.CommodityFish], g.Market.Prices[market.CommodityFood])
	}

	ledger.ClampHunger(p, g.Rules.HungerPerMove, g.Rules.MaxHunger)
	if passOut || p.Hunger >= g.Rules.MaxHunger {
		p.Position = 0
		paid := -g.Ledger.Adjust(p.ID, -g.Rules.HungerPenalty)
		p.Hunger = 0
		g.emit(EvPassedOut, paid, "%s passes out from hunger and is towed back to port", p.Name)
	}
}

// land resolves the current space. Returns true when the turn is suspended
// waiting on the player.
func (g *Game) land(p *ledger.Player) bool {
	g.Turn.Phase = PhaseLandingResolution
	sp := g.Board.At(p.Position)
	g.emit(EvLanded, 0, "%s lands on %s", p.Name, sp.Name)

	l := &lander{g: g, p: p, sp: sp}
	sp.Kind.Accept(l)
	return l.suspend
}

func (g *Game) endTurn() {
	g.Turn.Phase = PhaseEndTurn
	g.Pending = nil
	g.Offers = nil
	g.Session = nil
	g.emit(EvTurnEnded, 0, "%s ends their turn", g.Active().Name)

	players := g.Ledger.Players
	solvent := g.Ledger.Solvent()
	if solvent == 0 || (len(players) > 1 && solvent == 1) {
		g.Turn.Phase = PhaseGameOver
		for _, p := range players {
			if !p.Bankrupt {
				id := p.ID
				g.Turn.Winner = &id
			}
		}
		if g.Turn.Winner != nil {
			w := g.Ledger.Player(*g.Turn.Winner)
			g.emit(EvGameOver, g.Ledger.Balance(w.ID), "%s rules the harbor", w.Name)
			slog.Info("game over", "winner", w.Name, "round", g.Turn.Round)
		} else {
			g.emit(EvGameOver, 0, "every skipper is bankrupt")
			slog.Info("game over", "winner", "none", "round", g.Turn.Round)
		}
		return
	}

	for i := 1; i <= len(players); i++ {
		next := (g.Turn.Active + i) % len(players)
		if !players[next].Bankrupt {
			g.Turn.Active = next
			break
		}
	}
	g.startTurn()
}

// --- Player commands ---

func (g *Game) buy() error {
	p := g.Active()
	sp := g.Board.At(p.Position)
	if err := g.Ledger.Purchase(p.ID, sp); err != nil {
		return err
	}
	prop, _ := sp.Property()
	g.emit(EvPurchased, prop.Price, "%s buys %s", p.Name, sp.Name)
	g.endTurn()
	return nil
}

func (g *Game) pass() {
	p := g.Active()
	switch g.Turn.Phase {
	case PhasePurchaseDecision:
		g.emit(EvPassed, 0, "%s passes on %s", p.Name, g.Board.At(p.Position).Name)
	case PhaseShipyardMenu:
		g.emit(EvPassed, 0, "%s leaves the shipyard", p.Name)
	case PhaseVoyagePrompt:
		g.emit(EvPassed, 0, "%s stays in port", p.Name)
	}
	g.endTurn()
}

func (g *Game) payBail() error {
	p := g.Active()
	if err := g.Ledger.Spend(p.ID, g.Rules.Bail); err != nil {
		return err
	}
	p.Jailed = false
	g.Turn.Phase = PhaseIdle
	g.emit(EvBailPaid, g.Rules.Bail, "%s pays bail", p.Name)
	return nil
}

func (g *Game) attemptEscape() {
	p := g.Active()
	g.Turn.Phase = PhaseRolling
	n := entropy.RollDie(g.src)
	g.emit(EvRolled, n, "%s rolls %d for escape", p.Name, n)
	if n != g.Rules.EscapeValue {
		g.emit(EvEscapeFailed, n, "%s stays locked up", p.Name)
		g.endTurn()
		return
	}
	p.Jailed = false
	g.emit(EvEscaped, n, "%s slips out of jail", p.Name)
	g.advance(p, n)
}

func (g *Game) chooseFate(i int) error {
	if i < 0 || i >= len(g.Pending) {
		return fmt.Errorf("choose fate %d of %d: %w", i, len(g.Pending), ErrBadIndex)
	}
	g.applyFate(g.Active(), g.Pending[i])
	g.endTurn()
	return nil
}

// applyFate applies every delta of an outcome once and clears the menu.
func (g *Game) applyFate(p *ledger.Player, o fate.Outcome) {
	g.Pending = nil
	applied := g.Ledger.Adjust(p.ID, o.MoneyDelta)
	ledger.ClampHunger(p, o.HungerDelta, g.Rules.MaxHunger)
	ledger.ClampEquipment(p, o.EquipmentDelta, voyage.MaxCondition)
	g.emit(EvFateApplied, applied, "%s: %s", o.Label, o.Description)
}

func (g *Game) buyUpgradeCmd(i int) error {
	if i < 0 || i >= len(g.Offers) {
		return fmt.Errorf("buy upgrade %d of %d: %w", i, len(g.Offers), ErrBadIndex)
	}
	if err := g.buyUpgrade(g.Active(), g.Offers[i]); err != nil {
		return err
	}
	g.endTurn()
	return nil
}

func (g *Game) buyUpgrade(p *ledger.Player, u voyage.Upgrade) error {
	if err := g.Ledger.Spend(p.ID, u.Cost); err != nil {
		return err
	}
	if u.BoatTier > p.BoatTier {
		p.BoatTier = u.BoatTier
		p.UpgradeSpend += u.Cost
	}
	if u.Repair > 0 {
		ledger.ClampEquipment(p, u.Repair, voyage.MaxCondition)
	}
	g.emit(EvUpgraded, u.Cost, "%s buys %s", p.Name, u.Name)
	return nil
}

func (g *Game) enterVoyage() {
	p := g.Active()
	g.Session = voyage.New(g.src, g.Rules.Voyage, g.gear(p))
	g.Turn.Phase = PhaseVoyage
	g.emit(EvVoyageStarted, 0, "%s heads out to the fishing grounds", p.Name)
}

func (g *Game) revealTile(i int) error {
	if g.Session == nil || i < 0 || i >= len(g.Session.Tiles) {
		return fmt.Errorf("reveal tile %d: %w", i, ErrBadIndex)
	}
	t, ok := g.Session.Reveal(i)
	if !ok {
		return nil
	}
	g.emit(EvTileRevealed, t.Value, "tile %d: %s", i, t.Content)
	return nil
}

func (g *Game) returnToPort() {
	p := g.Active()
	value, wear, _ := g.Session.Close()
	applied := g.Ledger.Adjust(p.ID, value)
	ledger.ClampEquipment(p, -wear, voyage.MaxCondition)
	g.emit(EvReturnedToPort, applied, "%s returns to port with %d", p.Name, value)
	g.endTurn()
}

func (g *Game) gear(p *ledger.Player) voyage.Gear {
	return voyage.Gear{Tier: p.BoatTier, Condition: p.Equipment}
}

// --- System commands ---

func (g *Game) mergeContent(c *Content) error {
	if c == nil {
		return fmt.Errorf("merge content: %w", ErrBadIndex)
	}
	sp := g.Board.At(c.SpaceID)
	if sp == nil {
		return fmt.Errorf("merge content for space %d: %w", c.SpaceID, ErrBadIndex)
	}
	sp.Description = c.Description
	if c.ImageRef != "" {
		sp.ImageRef = c.ImageRef
	}
	sp.Generated = true
	g.emit(EvContentMerged, 0, "%s has a new description", sp.Name)
	return nil
}

func (g *Game) addFates(outcomes []fate.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	g.fates.Add(outcomes...)
	g.emit(EvFatesAdded, len(outcomes), "%d new fates drift into the harbor", len(outcomes))
}

// Rent returns what a non-owner pays on a space: base rent scaled by the
// market multiplier for its category and the owner's set bonus, floored.
func (g *Game) Rent(sp *board.Space) int {
	prop, ok := sp.Property()
	if !ok || sp.Owner == nil {
		return 0
	}
	bonus := 1.0
	if g.Rules.OwnerSetSize > 0 && g.Ledger.CountOwned(*sp.Owner, g.Board, prop.Category) >= g.Rules.OwnerSetSize {
		bonus = g.Rules.OwnerBonus
	}
	// The epsilon keeps 60*0.6 from flooring to 35.
	return int(math.Floor(float64(prop.BaseRent)*g.Market.Multiplier(prop.Category)*bonus + 1e-9))
}
