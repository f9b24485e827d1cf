package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/napolitain/seldon-idle/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_saves (
	user_id      TEXT PRIMARY KEY,
	last_tick_at INTEGER NOT NULL,
	payload      BLOB NOT NULL,
	checksum     TEXT NOT NULL,
	updated_at   INTEGER NOT NULL
);`

// SQLiteStore keeps snapshots in a single sqlite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a sqlite database. ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one connection: sqlite serializes writers and :memory: is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID string) (*models.GameState, error) {
	var payload []byte
	var checksum string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, checksum FROM game_saves WHERE user_id = ?`, userID,
	).Scan(&payload, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", userID, err)
	}
	state, err := Decode(payload, checksum)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", userID, err)
	}
	return state, nil
}

func (s *SQLiteStore) Put(ctx context.Context, userID string, state *models.GameState) error {
	payload, checksum, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_saves (user_id, last_tick_at, payload, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			last_tick_at = excluded.last_tick_at,
			payload      = excluded.payload,
			checksum     = excluded.checksum,
			updated_at   = excluded.updated_at`,
		userID, state.LastTickAt.UnixNano(), payload, checksum, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
