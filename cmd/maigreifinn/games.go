package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/maigreifinn/internal/persistence"
)

func newGamesCommand() *cobra.Command {
	var events int
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		Long: `List every game in the database, most recently played first. With
--events, also print the tail of the current game's log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := persistence.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			return listGames(os.Stdout, db, events)
		},
	}
	cmd.Flags().IntVar(&events, "events", 0, "Also print this many recent events of the current game")
	return cmd
}

func listGames(w io.Writer, db *persistence.DB, events int) error {
	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	current, err := db.GetMeta(currentGameKey)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(w, "No saved games.")
		return nil
	}

	for _, g := range games {
		marker := " "
		if g.ID == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %-20s round %-4d updated %s\n",
			marker, g.ID, g.Name, g.Round, humanize.Time(g.UpdatedAt))
	}

	if events <= 0 || current == "" {
		return nil
	}
	log, err := db.RecentEvents(current, events)
	if err != nil {
		return fmt.Errorf("recent events: %w", err)
	}
	fmt.Fprintf(w, "\nLast %d events of %s:\n", len(log), current)
	for _, e := range log {
		fmt.Fprintf(w, "  #%-5d r%-3d %-18s %s\n", e.Seq, e.Round, e.Type, e.Description)
	}
	return nil
}
