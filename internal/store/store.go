// Package store persists game state snapshots, one row per user.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/napolitain/seldon-idle/internal/config"
	"github.com/napolitain/seldon-idle/internal/models"
)

// ErrNotFound is returned by Get for a user with no saved game
var ErrNotFound = errors.New("game state not found")

// Store loads and saves full game state snapshots
type Store interface {
	Get(ctx context.Context, userID string) (*models.GameState, error)
	Put(ctx context.Context, userID string, state *models.GameState) error
	Close() error
}

// Open connects the configured backend
func Open(ctx context.Context, cfg config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	case "postgres":
		return OpenPostgres(ctx, cfg.PostgresDSN())
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
}
