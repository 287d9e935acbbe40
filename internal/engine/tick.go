package engine

import (
	"context"
	"log/slog"
	"time"
)

// Pacer inserts cosmetic delays between automated steps. It never affects
// game logic; tests use NoDelay.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

// RealPacer sleeps for d divided by Speed. A Speed of 0 means real time.
type RealPacer struct {
	Speed float64
}

// Pause blocks for the scaled delay or until ctx is done.
func (p RealPacer) Pause(ctx context.Context, d time.Duration) error {
	if p.Speed > 0 {
		d = time.Duration(float64(d) / p.Speed)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay collapses every pause to zero.
type NoDelay struct{}

// Pause returns immediately unless ctx is already done.
func (NoDelay) Pause(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Autoplay drives autonomous turns on a table: whenever the active player is
// autonomous and idle it pauses for ThinkTime, then rolls for them. Human
// turns are left alone; the loop polls until they finish.
type Autoplay struct {
	Table     *Table
	Pacer     Pacer
	ThinkTime time.Duration // Pause before each autonomous roll
	Poll      time.Duration // Pause while waiting on a human
	MaxRounds int           // Stop after this round; 0 runs to game over
}

// Run blocks until the game ends, the round cap is reached, or ctx is done.
func (a *Autoplay) Run(ctx context.Context) error {
	pacer := a.Pacer
	if pacer == nil {
		pacer = NoDelay{}
	}
	poll := a.Poll
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	slog.Info("autoplay started", "think", a.ThinkTime, "max_rounds", a.MaxRounds)

	for {
		st, err := a.Table.Status(ctx)
		if err != nil {
			return err
		}
		if st.Phase == PhaseGameOver {
			slog.Info("autoplay stopped", "reason", "game over", "round", st.Round)
			return nil
		}
		if a.MaxRounds > 0 && st.Round >= a.MaxRounds {
			slog.Info("autoplay stopped", "reason", "round cap", "round", st.Round)
			return nil
		}

		if !st.Autonomous || st.Phase != PhaseIdle {
			// Human to act; poll on a real timer.
			if err := (RealPacer{}).Pause(ctx, poll); err != nil {
				return err
			}
			continue
		}

		if err := pacer.Pause(ctx, a.ThinkTime); err != nil {
			return err
		}
		if _, err := a.Table.Submit(ctx, Roll()); err != nil {
			// Someone else moved the game on between Status and Submit.
			slog.Debug("autoplay roll rejected", "error", err)
		}
	}
}
