package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/agents"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/entropy"
)

func TestSnapshot_RestoresEquivalentGame(t *testing.T) {
	g := newGame(t, entropy.Dice(4, 2), humans("Anna", "Björn"))
	_, err := g.Apply(engine.Roll())
	require.NoError(t, err)
	_, err = g.Apply(engine.Buy())
	require.NoError(t, err)

	snap := g.Snapshot()
	restored, err := engine.FromSnapshot(snap, &entropy.Script{})
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())

	// The restored game is independent of the original.
	restored.Ledger.Players[0].Money = 0
	assert.Equal(t, 1320, g.Ledger.Players[0].Money)
}

func TestSnapshot_ResumesRandomSource(t *testing.T) {
	crew := []agents.Recruit{
		{Name: "Anna", Autonomous: true, Archetype: agents.ArchAggressive},
		{Name: "Björn", Autonomous: true, Archetype: agents.ArchBalanced},
		{Name: "Katla", Autonomous: true, Archetype: agents.ArchConservative},
	}
	g := newGame(t, entropy.New(11), crew)
	for i := 0; i < 12 && g.Turn.Phase != engine.PhaseGameOver; i++ {
		_, err := g.Apply(engine.Roll())
		require.NoError(t, err)
	}

	snap := g.Snapshot()
	require.Equal(t, int64(11), snap.Seed)
	require.NotZero(t, snap.Draws)

	// The fallback source is ignored in favor of the recorded one.
	restored, err := engine.FromSnapshot(snap, entropy.New(999))
	require.NoError(t, err)
	for i := 0; i < 12 && g.Turn.Phase != engine.PhaseGameOver; i++ {
		_, err := g.Apply(engine.Roll())
		require.NoError(t, err)
		_, err = restored.Apply(engine.Roll())
		require.NoError(t, err)
	}
	assert.Equal(t, g.Snapshot(), restored.Snapshot())
}

func TestSnapshot_MidVoyage(t *testing.T) {
	src := &entropy.Script{Ints: []int{2}, Fallback: entropy.New(3)}
	g := newGame(t, src, humans("Anna", "Björn"))
	g.Ledger.Players[0].Position = 10
	_, err := g.Apply(engine.Roll())
	require.NoError(t, err)
	_, err = g.Apply(engine.EnterVoyage())
	require.NoError(t, err)
	_, err = g.Apply(engine.RevealTile(2))
	require.NoError(t, err)

	restored, err := engine.FromSnapshot(g.Snapshot(), entropy.New(1))
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseVoyage, restored.Turn.Phase)
	assert.Equal(t, g.Session.Accumulated, restored.Session.Accumulated)

	_, err = restored.Apply(engine.ReturnToPort())
	require.NoError(t, err)
	assert.NotNil(t, g.Session, "original untouched")
}

func TestSnapshot_RejectsInconsistentState(t *testing.T) {
	good := newGame(t, entropy.Dice(1), humans("Anna", "Björn")).Snapshot()

	cases := map[string]func(s *engine.Snapshot){
		"version":           func(s *engine.Snapshot) { s.Version = 99 },
		"no board":          func(s *engine.Snapshot) { s.Board = nil },
		"active bankrupt":   func(s *engine.Snapshot) { s.Ledger.Players[0].Bankrupt = true },
		"active range":      func(s *engine.Snapshot) { s.Turn.Active = 5 },
		"transient phase":   func(s *engine.Snapshot) { s.Turn.Phase = engine.PhaseMoving },
		"empty fate menu":   func(s *engine.Snapshot) { s.Turn.Phase = engine.PhaseFateChoice },
		"voyage no session": func(s *engine.Snapshot) { s.Turn.Phase = engine.PhaseVoyage },
		"hunger":            func(s *engine.Snapshot) { s.Ledger.Players[1].Hunger = 99 },
		"position":          func(s *engine.Snapshot) { s.Ledger.Players[1].Position = 40 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := good
			s.Ledger = good.Ledger.Clone()
			s.Board = good.Board.Clone()
			mutate(&s)
			g, err := engine.FromSnapshot(s, entropy.New(1))
			assert.ErrorIs(t, err, engine.ErrInvalidSnapshot)
			assert.Nil(t, g)
		})
	}
}

func startTable(t *testing.T, g *engine.Game) (*engine.Table, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	tbl := engine.NewTable(g)
	done := make(chan struct{})
	go func() {
		_ = tbl.Run(ctx)
		close(done)
	}()
	return tbl, func() {
		cancel()
		<-done
	}
}

func TestTable_SubmitAndSubscribe(t *testing.T) {
	g := newGame(t, entropy.Dice(4), humans("Anna", "Björn"))
	tbl, stop := startTable(t, g)
	defer stop()

	ctx := context.Background()
	events, cancel, err := tbl.Subscribe(ctx, 64)
	require.NoError(t, err)
	defer cancel()

	got, err := tbl.Submit(ctx, engine.Roll())
	require.NoError(t, err)
	require.NotEmpty(t, got)

	select {
	case ev := <-events:
		assert.Equal(t, got[0].Seq, ev.Seq)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	_, err = tbl.Submit(ctx, engine.Roll())
	assert.ErrorIs(t, err, engine.ErrWrongPhase)

	st, err := tbl.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.PhasePurchaseDecision, st.Phase)
}

func TestTable_PostMergesContent(t *testing.T) {
	g := newGame(t, entropy.Dice(4), humans("Anna", "Björn"))
	tbl, stop := startTable(t, g)
	defer stop()

	require.True(t, tbl.Post(engine.MergeContent(engine.Content{SpaceID: 1, Description: "Old but loyal."})))

	ctx := context.Background()
	assert.Eventually(t, func() bool {
		var desc string
		_ = tbl.View(ctx, func(g *engine.Game) { desc = g.Board.At(1).Description })
		return desc == "Old but loyal."
	}, time.Second, 10*time.Millisecond)
}

func TestTable_ClosedAfterStop(t *testing.T) {
	g := newGame(t, entropy.Dice(4), humans("Anna", "Björn"))
	tbl, stop := startTable(t, g)
	stop()

	_, err := tbl.Submit(context.Background(), engine.Roll())
	assert.ErrorIs(t, err, engine.ErrTableClosed)
}

func TestAutoplay_RunsToRoundCap(t *testing.T) {
	crew := agents.NewSpawner(entropy.New(7)).SpawnCrew(3)
	g := newGame(t, entropy.New(7), crew)
	tbl, stop := startTable(t, g)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	auto := &engine.Autoplay{Table: tbl, Pacer: engine.NoDelay{}, MaxRounds: 5}
	require.NoError(t, auto.Run(ctx))

	st, err := tbl.Status(ctx)
	require.NoError(t, err)
	if st.Phase != engine.PhaseGameOver {
		assert.GreaterOrEqual(t, st.Round, 5)
	}
}

func TestRealPacer_Cancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := engine.RealPacer{Speed: 1}.Pause(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, engine.RealPacer{Speed: 1000}.Pause(context.Background(), 10*time.Millisecond))
	assert.NoError(t, engine.NoDelay{}.Pause(context.Background(), time.Hour))
}
