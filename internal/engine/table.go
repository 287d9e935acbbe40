package engine

import (
	"context"
	"errors"
	"log/slog"
)

// ErrTableClosed is returned once the table's Run loop has exited.
var ErrTableClosed = errors.New("table closed")

// Table owns a Game on a single goroutine. Every command and every read goes
// through its inbox, so the game never needs a lock.
type Table struct {
	game *Game

	inbox  chan request
	views  chan viewRequest
	sub    chan subscription
	unsub  chan int
	done   chan struct{}
	subs   map[int]chan Event
	nextID int
}

type request struct {
	cmd  Command
	resp chan result // Nil for fire-and-forget posts
}

type result struct {
	events []Event
	err    error
}

type viewRequest struct {
	fn   func(*Game)
	done chan struct{}
}

type subscription struct {
	ch   chan Event
	resp chan int
}

// NewTable wraps a game. Call Run to start serving it.
func NewTable(g *Game) *Table {
	return &Table{
		game:  g,
		inbox: make(chan request, 64),
		views: make(chan viewRequest, 16),
		sub:   make(chan subscription),
		unsub: make(chan int),
		done:  make(chan struct{}),
		subs:  make(map[int]chan Event),
	}
}

// Run serves commands until ctx is done.
func (t *Table) Run(ctx context.Context) error {
	defer close(t.done)
	slog.Info("table open", "players", len(t.game.Ledger.Players))

	for {
		select {
		case <-ctx.Done():
			for id, ch := range t.subs {
				close(ch)
				delete(t.subs, id)
			}
			slog.Info("table closed", "round", t.game.Turn.Round)
			return ctx.Err()

		case req := <-t.inbox:
			events, err := t.game.Apply(req.cmd)
			if req.resp != nil {
				req.resp <- result{events: events, err: err}
			} else if err != nil {
				slog.Warn("posted command rejected", "cmd", req.cmd.Type, "error", err)
			}
			t.publish(events)

		case v := <-t.views:
			v.fn(t.game)
			close(v.done)

		case s := <-t.sub:
			t.nextID++
			t.subs[t.nextID] = s.ch
			s.resp <- t.nextID

		case id := <-t.unsub:
			if ch, ok := t.subs[id]; ok {
				close(ch)
				delete(t.subs, id)
			}
		}
	}
}

// publish fans events out without blocking; a slow subscriber loses events.
func (t *Table) publish(events []Event) {
	for _, ev := range events {
		for id, ch := range t.subs {
			select {
			case ch <- ev:
			default:
				slog.Debug("subscriber lagging, event dropped", "sub", id, "seq", ev.Seq)
			}
		}
	}
}

// Submit applies a command and waits for its events.
func (t *Table) Submit(ctx context.Context, cmd Command) ([]Event, error) {
	resp := make(chan result, 1)
	select {
	case t.inbox <- request{cmd: cmd, resp: resp}:
	case <-t.done:
		return nil, ErrTableClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-resp:
		return r.events, r.err
	case <-t.done:
		return nil, ErrTableClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Post queues a command without waiting. Used for content-generation
// results, which must never block their producer.
func (t *Table) Post(cmd Command) bool {
	select {
	case t.inbox <- request{cmd: cmd}:
		return true
	default:
		slog.Warn("table inbox full, command dropped", "cmd", cmd.Type)
		return false
	}
}

// View runs fn on the table goroutine. fn must not retain the game.
func (t *Table) View(ctx context.Context, fn func(*Game)) error {
	v := viewRequest{fn: fn, done: make(chan struct{})}
	select {
	case t.views <- v:
	case <-t.done:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-v.done:
		return nil
	case <-t.done:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a channel of every future event and a cancel func.
func (t *Table) Subscribe(ctx context.Context, buffer int) (<-chan Event, func(), error) {
	ch := make(chan Event, buffer)
	resp := make(chan int, 1)
	select {
	case t.sub <- subscription{ch: ch, resp: resp}:
	case <-t.done:
		return nil, nil, ErrTableClosed
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	id := <-resp
	cancel := func() {
		select {
		case t.unsub <- id:
		case <-t.done:
		}
	}
	return ch, cancel, nil
}

// Status is a compact view of whose turn it is.
type Status struct {
	Phase      Phase `json:"phase"`
	Round      int   `json:"round"`
	Active     int   `json:"active"`
	Autonomous bool  `json:"autonomous"`
}

// Status reads the scheduler position.
func (t *Table) Status(ctx context.Context) (Status, error) {
	var st Status
	err := t.View(ctx, func(g *Game) {
		st = Status{
			Phase:      g.Turn.Phase,
			Round:      g.Turn.Round,
			Active:     g.Turn.Active,
			Autonomous: g.Active().Autonomous,
		}
	})
	return st, err
}

// Snapshot captures the game from the table goroutine.
func (t *Table) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := t.View(ctx, func(g *Game) { s = g.Snapshot() })
	return s, err
}
