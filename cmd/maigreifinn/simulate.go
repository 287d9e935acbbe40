package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/maigreifinn/internal/config"
	"github.com/talgya/maigreifinn/internal/engine"
	"github.com/talgya/maigreifinn/internal/entropy"
)

func newSimulateCommand() *cobra.Command {
	var (
		players int
		rounds  int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play an all-autonomous game headlessly and print the standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("players") {
				cfg.Game.Fill = players
			}
			if cmd.Flags().Changed("rounds") {
				cfg.Game.MaxRounds = rounds
			}
			if cmd.Flags().Changed("seed") {
				cfg.Game.Seed = seed
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			g, err := simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			printStandings(os.Stdout, g)
			return nil
		},
	}
	cmd.Flags().IntVar(&players, "players", 4, "Number of skippers")
	cmd.Flags().IntVar(&rounds, "rounds", 100, "Round cap (0 plays until one skipper is left)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws one)")
	return cmd
}

// simulate runs a game where every seat is autonomous, without delays.
func simulate(ctx context.Context, cfg *config.Config) (*engine.Game, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := range cfg.Game.Players {
		cfg.Game.Players[i].Autonomous = true
	}

	seed := seedFrom(cfg.Game.Seed)
	g, err := newGame(cfg, entropy.New(seed), seed)
	if err != nil {
		return nil, err
	}
	slog.Info("simulation started", "seed", seed, "players", len(g.Ledger.Players), "max_rounds", cfg.Game.MaxRounds)

	table := engine.NewTable(g)
	tableCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = table.Run(tableCtx)
	}()

	auto := &engine.Autoplay{Table: table, Pacer: engine.NoDelay{}, MaxRounds: cfg.Game.MaxRounds}
	runErr := auto.Run(ctx)
	cancel()
	<-done
	if runErr != nil {
		return nil, fmt.Errorf("simulation: %w", runErr)
	}
	return g, nil
}
