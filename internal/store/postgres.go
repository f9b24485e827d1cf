package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/napolitain/seldon-idle/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_saves (
	user_id      TEXT PRIMARY KEY,
	last_tick_at TIMESTAMPTZ NOT NULL,
	payload      BYTEA NOT NULL,
	checksum     TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore keeps snapshots in postgres through a pgx pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and migrates
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*models.GameState, error) {
	var payload []byte
	var checksum string
	err := s.pool.QueryRow(ctx,
		`SELECT payload, checksum FROM game_saves WHERE user_id = $1`, userID,
	).Scan(&payload, &checksum)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresStore) Put(ctx context.Context, userID string, state *models.GameState) error {
	payload, checksum, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_saves (user_id, last_tick_at, payload, checksum, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			last_tick_at = EXCLUDED.last_tick_at,
			payload      = EXCLUDED.payload,
			checksum     = EXCLUDED.checksum,
			updated_at   = now()`,
		userID, state.LastTickAt, payload, checksum,
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", userID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
