package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maigreifinn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))
	assert.Equal(t, 1500, cfg.Rules.StartMoney)
	assert.Equal(t, 4, cfg.Game.Seats())
	assert.Equal(t, "personal", cfg.Game.Funding)
	assert.Equal(t, 800*time.Millisecond, cfg.Pacing.ThinkTime)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	path := writeConfig(t, `
game:
  name: Friday harbor
  seed: 7
  funding: company
  fill: 3
  players:
    - name: Anna
    - name: Björn
      archetype: aggressive
      autonomous: true
rules:
  start_money: 2000
pacing:
  think_time: 2s
logging:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Friday harbor", cfg.Game.Name)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, "company", cfg.Game.Funding)
	require.Len(t, cfg.Game.Players, 2)
	assert.Equal(t, "aggressive", cfg.Game.Players[1].Archetype)
	assert.True(t, cfg.Game.Players[1].Autonomous)
	assert.Equal(t, 3, cfg.Game.Seats())
	assert.Equal(t, 2000, cfg.Rules.StartMoney)
	assert.Equal(t, 200, cfg.Rules.LapBonus, "unset keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Pacing.ThinkTime)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAIG_SERVER_ADDR", ":9999")
	t.Setenv("MAIG_RULES_BAIL", "75")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	path := writeConfig(t, "server:\n  addr: \":7000\"\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 75, cfg.Rules.Bail)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cases := map[string]string{
		"funding":     "game:\n  funding: guild\n",
		"archetype":   "game:\n  players:\n    - name: Anna\n      archetype: reckless\n",
		"log level":   "logging:\n  level: loud\n",
		"one seat":    "game:\n  fill: 0\n  players:\n    - name: Anna\n",
		"duplicate":   "game:\n  players:\n    - name: Anna\n    - name: Anna\n",
		"board":       "game:\n  board:\n    file: harbor.yaml\n    generate: true\n",
		"start money": "rules:\n  start_money: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
