package store

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Cached is a write-through LRU in front of another store.
// Cached states are cloned on the way in and out so callers never share a snapshot.
type Cached struct {
	inner Store
	cache *lru.Cache
}

// NewCached wraps inner with an LRU of size entries
func NewCached(inner Store, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Get returns a copy of the cached state, reading through to the inner store on a miss
func (c *Cached) Get(ctx context.Context, userID string) (*models.GameState, error) {
	if v, ok := c.cache.Get(userID); ok {
		return v.(*models.GameState).Clone(), nil
	}
	state, err := c.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(userID, state.Clone())
	return state, nil
}

// Put writes to the inner store first and caches the state only when that succeeds
func (c *Cached) Put(ctx context.Context, userID string, state *models.GameState) error {
	if err := c.inner.Put(ctx, userID, state); err != nil {
		// the row may or may not have been written
		c.cache.Remove(userID)
		return err
	}
	c.cache.Add(userID, state.Clone())
	return nil
}

// Close purges the cache and closes the inner store
func (c *Cached) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}
