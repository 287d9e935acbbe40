// Command maigreifinn runs the Maígreifinn harbor board game: a server
// with an HTTP API and autonomous skippers, or a headless simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/maigreifinn/internal/config"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "maigreifinn",
		Short: "Maígreifinn - a harbor board game of boats, restaurants and hunger",
		Long: `Maígreifinn runs a circular harbor board game where human and autonomous
skippers buy boats and restaurants, collect rent, go fishing and try not to
pass out from hunger.

Examples:
  maigreifinn serve --config maigreifinn.yaml
  maigreifinn simulate --players 4 --rounds 50 --seed 7
  maigreifinn games --events 20`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./maigreifinn.yaml if present)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newSimulateCommand())
	root.AddCommand(newGamesCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg.Logging))
	return cfg, nil
}

func newLogger(c config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch c.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
