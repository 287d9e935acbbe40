package engine

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/ledger"
	"github.com/talgya/maigreifinn/internal/voyage"
)

// lander resolves one landing. Adding a space kind breaks this type until
// the new Visit method is written.
type lander struct {
	g       *Game
	p       *ledger.Player
	sp      *board.Space
	suspend bool
}

var _ board.Visitor = (*lander)(nil)

func (l *lander) VisitStart(board.Start) {}
func (l *lander) VisitFree(board.Free)   {}

func (l *lander) VisitProperty(k board.Property) {
	g, p, sp := l.g, l.p, l.sp
	switch {
	case sp.Owner == nil:
		if !p.Autonomous {
			g.Turn.Phase = PhasePurchaseDecision
			g.emit(EvPurchasePrompt, k.Price, "%s is for sale at %d", sp.Name, k.Price)
			l.suspend = true
			return
		}
		if agents.DecidePurchase(g.Ledger.Actor(p), k, g.Market, g.src) == agents.Buy {
			if err := g.Ledger.Purchase(p.ID, sp); err == nil {
				g.emit(EvPurchased, k.Price, "%s buys %s", p.Name, sp.Name)
				return
			}
		}
		g.emit(EvPassed, 0, "%s passes on %s", p.Name, sp.Name)

	case *sp.Owner == p.ID:
		if k.Category == board.CategoryRestaurant {
			ledger.ClampHunger(p, -g.Rules.RestaurantRelief, g.Rules.MaxHunger)
			g.emit(EvMeal, 0, "%s eats for free at their own %s", p.Name, sp.Name)
		}

	default:
		owner := g.Ledger.Player(*sp.Owner)
		rent := g.Rent(sp)
		res, err := g.Ledger.SettleRent(p.ID, owner.ID, rent)
		if err != nil {
			slog.Error("rent settlement failed", "space", sp.Name, "error", err)
			return
		}
		if res.Bankrupt {
			released := g.Ledger.Release(p.ID, g.Board)
			g.emit(EvBankrupt, rent, "%s cannot pay %d to %s and goes bankrupt", p.Name, rent, owner.Name)
			slog.Info("player bankrupt", "player", p.Name, "rent", rent, "owner", owner.Name, "released", len(released))
			return
		}
		g.emit(EvRentPaid, rent, "%s pays %d to %s", p.Name, rent, owner.Name)
		slog.Debug("rent paid", "payer", p.Name, "owner", owner.Name, "amount", humanize.Comma(int64(rent)))
		if k.Category == board.CategoryRestaurant {
			ledger.ClampHunger(p, -g.Rules.RestaurantRelief, g.Rules.MaxHunger)
			g.emit(EvMeal, 0, "%s eats at %s", p.Name, sp.Name)
		}
	}
}

func (l *lander) VisitChance(board.Chance) {
	g, p := l.g, l.p
	options := g.fates.Draw(g.src, g.Rules.FateOptions)
	if len(options) == 0 {
		return
	}
	if p.Autonomous {
		g.applyFate(p, options[agents.ChooseFate(g.Ledger.Actor(p), options, g.src)])
		return
	}
	g.Pending = options
	g.Turn.Phase = PhaseFateChoice
	g.emit(EvFateOffered, len(options), "fate offers %s %d choices", p.Name, len(options))
	l.suspend = true
}

func (l *lander) VisitStorm(board.Storm) {
	g, p := l.g, l.p
	paid := -g.Ledger.Adjust(p.ID, -g.Rules.StormPenalty)
	ledger.ClampHunger(p, g.Rules.StormHunger, g.Rules.MaxHunger)
	g.emit(EvStorm, paid, "a storm batters %s", p.Name)
}

func (l *lander) VisitJail(board.Jail) {
	l.p.Jailed = true
	l.g.emit(EvJailed, 0, "%s is held in %s", l.p.Name, l.sp.Name)
}

func (l *lander) VisitGoToJail(board.GoToJail) {
	g, p := l.g, l.p
	if jail := g.Board.JailID(); jail >= 0 {
		p.Position = jail
	}
	p.Jailed = true
	g.emit(EvJailed, 0, "the coast guard takes %s to jail", p.Name)
}

func (l *lander) VisitShipyard(board.Shipyard) {
	g, p := l.g, l.p
	offers := voyage.Offers(g.shipyard, p.BoatTier, p.Equipment)
	if len(offers) == 0 {
		return
	}
	if p.Autonomous {
		if i, ok := agents.DecideUpgrade(g.Ledger.Actor(p), voyage.Costs(offers), g.src); ok {
			if err := g.buyUpgrade(p, offers[i]); err != nil {
				slog.Debug("autonomous upgrade failed", "player", p.Name, "error", err)
			}
		}
		return
	}
	g.Offers = offers
	g.Turn.Phase = PhaseShipyardMenu
	g.emit(EvShipyardOffered, len(offers), "the shipyard has %d offers for %s", len(offers), p.Name)
	l.suspend = true
}

func (l *lander) VisitFishingGrounds(board.FishingGrounds) {
	g, p := l.g, l.p
	if p.Autonomous {
		value, wear := voyage.QuickCatch(g.src, g.Rules.Voyage, g.gear(p))
		applied := g.Ledger.Adjust(p.ID, value)
		ledger.ClampEquipment(p, -wear, voyage.MaxCondition)
		g.emit(EvCatch, applied, "%s hauls in %d", p.Name, value)
		return
	}
	g.Turn.Phase = PhaseVoyagePrompt
	g.emit(EvVoyagePrompt, 0, "%s may head out to %s", p.Name, l.sp.Name)
	l.suspend = true
}
