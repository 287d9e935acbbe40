// Package persistence provides SQLite-based game storage: snapshot blobs,
// the event log, and the list of saved games.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/maigreifinn/internal/board"
	"github.com/talgya/maigreifinn/internal/engine"
)

// ErrNoSnapshot is returned when a game has never been saved.
var ErrNoSnapshot = errors.New("no saved snapshot")

// DB wraps a SQLite connection for game persistence.
type DB struct {
	conn *sqlx.DB
}

// GameRecord is one row of the games table.
type GameRecord struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Round     int       `db:"round" json:"round"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type eventRow struct {
	Seq         uint64 `db:"seq"`
	Round       int    `db:"round"`
	Type        string `db:"type"`
	Phase       string `db:"phase"`
	Player      int    `db:"player"`
	Space       int    `db:"space"`
	Amount      int    `db:"amount"`
	Description string `db:"description"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		round INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL REFERENCES games(id),
		round INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		blob BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_game ON snapshots(game_id, created_at);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		round INTEGER NOT NULL,
		type TEXT NOT NULL,
		phase TEXT NOT NULL,
		player INTEGER NOT NULL,
		space INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		description TEXT NOT NULL,
		UNIQUE(game_id, seq)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateGame registers a new game and returns its id.
func (db *DB) CreateGame(name string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.conn.Exec(
		"INSERT INTO games (id, name, round, created_at, updated_at) VALUES (?, ?, 0, ?, ?)",
		id, name, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return id, nil
}

// SaveGame encodes snap and stores it as the newest snapshot of the game,
// together with any log events not yet stored.
func (db *DB) SaveGame(gameID string, snap engine.Snapshot) error {
	blob, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.Exec("UPDATE games SET round = ?, updated_at = ? WHERE id = ?", snap.Turn.Round, now, gameID)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save game %s: unknown game", gameID)
	}
	if _, err := tx.Exec(
		"INSERT INTO snapshots (id, game_id, round, created_at, blob) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), gameID, snap.Turn.Round, now, blob,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if err := insertEvents(tx, gameID, snap.Log); err != nil {
		return fmt.Errorf("save events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("game saved", "game", gameID, "round", snap.Turn.Round, "bytes", len(blob))
	return nil
}

// LatestSnapshot returns the newest snapshot of a game. A blob that fails
// to decode is reported as an error; the caller starts a fresh game.
func (db *DB) LatestSnapshot(gameID string) (engine.Snapshot, error) {
	var blob []byte
	err := db.conn.Get(&blob,
		"SELECT blob FROM snapshots WHERE game_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1",
		gameID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return Decode(blob)
}

// SaveEvents appends events to the log of a game. Events already stored
// are skipped.
func (db *DB) SaveEvents(gameID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertEvents(tx, gameID, events); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEvents(tx *sqlx.Tx, gameID string, events []engine.Event) error {
	for _, e := range events {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO events (game_id, seq, round, type, phase, player, space, amount, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID, e.Seq, e.Round, e.Type, e.Phase.String(), int(e.Player), e.Space, e.Amount, e.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RecentEvents returns the most recent N events of a game, oldest first.
func (db *DB) RecentEvents(gameID string, limit int) ([]engine.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		`SELECT seq, round, type, phase, player, space, amount, description
		FROM events WHERE game_id = ? ORDER BY seq DESC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, err
	}

	events := make([]engine.Event, len(rows))
	for i, r := range rows {
		var phase engine.Phase
		if err := phase.UnmarshalText([]byte(r.Phase)); err != nil {
			return nil, fmt.Errorf("event %d: %w", r.Seq, err)
		}
		events[len(rows)-1-i] = engine.Event{
			Seq:         r.Seq,
			Round:       r.Round,
			Type:        r.Type,
			Phase:       phase,
			Player:      board.PlayerID(r.Player),
			Space:       r.Space,
			Amount:      r.Amount,
			Description: r.Description,
		}
	}
	return events, nil
}

// ListGames returns every saved game, most recently updated first.
func (db *DB) ListGames() ([]GameRecord, error) {
	var games []GameRecord
	err := db.conn.Select(&games,
		"SELECT id, name, round, created_at, updated_at FROM games ORDER BY updated_at DESC")
	return games, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key yields "".
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
