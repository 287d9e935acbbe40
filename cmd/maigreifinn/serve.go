package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/maigreifinn/internal/api"
	"github.com/talgya/maigreifinn/internal/config"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/llm"
	"github.com/talgya/maigreifinn/internal/persistence"
)

const currentGameKey = "current_game"

func newServeCommand() *cobra.Command {
	var fresh bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a table with the HTTP API",
		Long: `Open the database, resume the last saved game (or start a new one),
drive autonomous skippers and serve the HTTP API until interrupted. The game
is saved on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cfg, fresh)
		},
	}
	cmd.Flags().BoolVar(&fresh, "new", false, "Start a new game even if a saved one exists")
	return cmd
}

func serve(cfg *config.Config, fresh bool) error {
	slog.Info("Maígreifinn harbor opening", "name", cfg.Game.Name)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	db, err := persistence.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Database.Path)

	// ── Load or start a game ─────────────────────────────────────────
	seed := seedFrom(cfg.Game.Seed)
	src := entropy.New(seed)

	var g *engine.Game
	gameID, _ := db.GetMeta(currentGameKey)
	if gameID != "" && !fresh {
		g, err = resume(db, gameID, src)
		if err != nil {
			// A bad save never blocks play; the old rows stay for inspection.
			slog.Warn("could not resume saved game, starting fresh", "game", gameID, "error", err)
			g = nil
		}
	}
	if g == nil {
		g, err = newGame(cfg, src, seed)
		if err != nil {
			return err
		}
		gameID, err = db.CreateGame(cfg.Game.Name)
		if err != nil {
			return err
		}
		if err := db.SaveMeta(currentGameKey, gameID); err != nil {
			return err
		}
		if err := db.SaveGame(gameID, g.Snapshot()); err != nil {
			slog.Error("initial save failed", "error", err)
		}
		slog.Info("new game", "game", gameID, "seed", seed)
	}

	// ── Table ─────────────────────────────────────────────────────────
	table := engine.NewTable(g)
	tableCtx, closeTable := context.WithCancel(context.Background())
	tableDone := make(chan struct{})
	go func() {
		defer close(tableDone)
		_ = table.Run(tableCtx)
	}()
	defer func() {
		closeTable()
		<-tableDone
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// ── Content generation ───────────────────────────────────────────
	client := llm.NewClient(llm.Config{
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		PerMinute: cfg.LLM.PerMinute,
	})
	if client.Enabled() {
		slog.Info("LLM client enabled (Haiku)")
	} else {
		slog.Warn("no Anthropic API key set, space descriptions use fallback text")
	}
	enricher := llm.NewEnricher(client, cfg.LLM.Concurrency)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for cmd := range enricher.Results() {
			table.Post(cmd)
		}
	}()
	var reqs []llm.SpaceRequest
	_ = table.View(ctx, func(g *engine.Game) { reqs = spaceRequests(g.Board) })
	enricher.Describe(ctx, reqs...)
	if client.Enabled() && cfg.LLM.Fates > 0 {
		enricher.Fates(ctx, cfg.LLM.Fates)
	}

	// ── Autoplay ─────────────────────────────────────────────────────
	var pacer engine.Pacer = engine.NoDelay{}
	if cfg.Pacing.Speed > 0 {
		pacer = engine.RealPacer{Speed: cfg.Pacing.Speed}
	}
	auto := &engine.Autoplay{
		Table:     table,
		Pacer:     pacer,
		ThinkTime: cfg.Pacing.ThinkTime,
		Poll:      cfg.Pacing.Poll,
		MaxRounds: cfg.Game.MaxRounds,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := auto.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("autoplay stopped", "error", err)
		}
	}()

	// ── Event log ────────────────────────────────────────────────────
	events, unsubscribe, err := table.Subscribe(ctx, 256)
	if err != nil {
		return err
	}
	defer unsubscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		recordEvents(ctx, db, gameID, events)
	}()

	// ── Periodic save ────────────────────────────────────────────────
	if cfg.Database.SaveEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(cfg.Database.SaveEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := save(ctx, db, gameID, table); err != nil {
						slog.Error("periodic save failed", "error", err)
					}
				}
			}
		}()
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.AdminKey == "" {
		slog.Warn("admin key not set, /save and system commands are disabled")
	}
	server := &api.Server{
		Table:    table,
		DB:       db,
		GameID:   gameID,
		Addr:     cfg.Server.Addr,
		AdminKey: cfg.Server.AdminKey,
		Limiter:  api.NewRateLimiter(cfg.Server.Rate, cfg.Server.Burst),
	}

	fmt.Printf("\nMaígreifinn is open: game %s\n", gameID)
	fmt.Printf("API: http://localhost%s/api/v1/state\n", cfg.Server.Addr)
	fmt.Println("Ctrl+C to stop")

	serveErr := server.Run(ctx)
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		slog.Error("HTTP server error", "error", serveErr)
		stop()
	}
	<-ctx.Done()
	slog.Info("shutting down")

	// Final save while the table is still running.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := save(saveCtx, db, gameID, table); err != nil {
		slog.Error("final save failed", "error", err)
	}

	enricher.Close()
	wg.Wait()
	fmt.Println("Harbor closed. Game saved.")
	return nil
}

func resume(db *persistence.DB, gameID string, src entropy.Source) (*engine.Game, error) {
	snap, err := db.LatestSnapshot(gameID)
	if err != nil {
		return nil, err
	}
	g, err := engine.FromSnapshot(snap, src)
	if err != nil {
		return nil, err
	}
	slog.Info("game resumed", "game", gameID, "round", g.Turn.Round, "phase", g.Turn.Phase)
	return g, nil
}

func save(ctx context.Context, db *persistence.DB, gameID string, table *engine.Table) error {
	snap, err := table.Snapshot(ctx)
	if err != nil {
		return err
	}
	return db.SaveGame(gameID, snap)
}

// recordEvents writes the live event stream to the database in small
// batches so the log survives a crash between snapshots.
func recordEvents(ctx context.Context, db *persistence.DB, gameID string, events <-chan engine.Event) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var batch []engine.Event
	flush := func() {
		if err := db.SaveEvents(gameID, batch); err != nil {
			slog.Error("event log write failed", "events", len(batch), "error", err)
		}
		batch = batch[:0]
	}
	defer flush()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			batch = append(batch, e)
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			return
		}
	}
}
