package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/maigreifinn/internal/config"
	"github.com/talgya/maigreifinn/internal/entropy"
	"github.com/talgya/maigreifinn/internal/persistence"
)

func TestListGames(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "harbor.db"))
	require.NoError(t, err)
	defer db.Close()

	var out bytes.Buffer
	require.NoError(t, listGames(&out, db, 5))
	assert.Contains(t, out.String(), "No saved games.")

	cfg := config.Default()
	g, err := newGame(cfg, entropy.New(3), 3)
	require.NoError(t, err)
	id, err := db.CreateGame("Harbor")
	require.NoError(t, err)
	require.NoError(t, db.SaveMeta(currentGameKey, id))
	require.NoError(t, db.SaveGame(id, g.Snapshot()))

	out.Reset()
	require.NoError(t, listGames(&out, db, 5))
	assert.Contains(t, out.String(), "* "+id)
	assert.Contains(t, out.String(), "Harbor")
}
