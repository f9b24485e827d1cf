package game

import (
	"errors"
	"fmt"

	"github.com/napolitain/seldon-idle/internal/economy"
)

// ErrRefused is the parent of every business refusal. A refused request was well formed
// but the game state does not allow it.
var ErrRefused = errors.New("refused")

var (
	ErrCannotAfford      = fmt.Errorf("%w: cannot afford", ErrRefused)
	ErrLocked            = fmt.Errorf("%w: locked", ErrRefused)
	ErrAlreadyPurchased  = fmt.Errorf("%w: already purchased", ErrRefused)
	ErrNotInInventory    = fmt.Errorf("%w: item not in inventory", ErrRefused)
	ErrNotConsumable     = fmt.Errorf("%w: item is not a consumable", ErrRefused)
	ErrConsumableActive  = fmt.Errorf("%w: a consumable is already active", ErrRefused)
	ErrNothingToPrestige = fmt.Errorf("%w: %w", ErrRefused, economy.ErrNothingToPrestige)
)

// ErrInvalidSave is returned for a client save that could never be valid
var ErrInvalidSave = errors.New("invalid save")
