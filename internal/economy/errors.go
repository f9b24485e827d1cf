package economy

import (
	"errors"
	"fmt"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Validation failures. Business refusals (cannot afford, locked) are never errors here.
var (
	ErrInvalidClickCount = errors.New("click count out of range")
	ErrInvalidAmount     = errors.New("purchase amount out of range")
	ErrUnknownBuilding   = errors.New("unknown building")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrUnknownItem       = errors.New("unknown item")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrNothingToPrestige = errors.New("not enough lifetime credits to prestige")
)

// KeyError reports a key missing from the catalog, with the closest known key if any
type KeyError struct {
	Kind       models.CatalogKind
	Key        string
	Suggestion string
	err        error
}

func (e *KeyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s %q (did you mean %q?)", e.err, e.Key, e.Suggestion)
	}
	return fmt.Sprintf("%s %q", e.err, e.Key)
}

func (e *KeyError) Unwrap() error {
	return e.err
}

func (e Engine) keyError(kind models.CatalogKind, key string) error {
	var sentinel error
	switch kind {
	case models.KindBuilding:
		sentinel = ErrUnknownBuilding
	case models.KindUpgrade:
		sentinel = ErrUnknownUpgrade
	case models.KindItem:
		sentinel = ErrUnknownItem
	case models.KindEvent:
		sentinel = ErrUnknownEvent
	default:
		sentinel = fmt.Errorf("unknown %s", kind)
	}
	return &KeyError{
		Kind:       kind,
		Key:        key,
		Suggestion: e.Catalog.Suggest(kind, key),
		err:        sentinel,
	}
}

// LookupBuilding resolves a building key or returns a *KeyError
func (e Engine) LookupBuilding(key string) (*models.BuildingDef, error) {
	if def, ok := e.Catalog.Building(key); ok {
		return def, nil
	}
	return nil, e.keyError(models.KindBuilding, key)
}

// LookupUpgrade resolves an upgrade key or returns a *KeyError
func (e Engine) LookupUpgrade(key string) (*models.UpgradeDef, error) {
	if def, ok := e.Catalog.Upgrade(key); ok {
		return def, nil
	}
	return nil, e.keyError(models.KindUpgrade, key)
}

// LookupItem resolves an item key or returns a *KeyError
func (e Engine) LookupItem(key string) (*models.ItemDef, error) {
	if def, ok := e.Catalog.Item(key); ok {
		return def, nil
	}
	return nil, e.keyError(models.KindItem, key)
}

// LookupEvent resolves an event key or returns a *KeyError
func (e Engine) LookupEvent(key string) (*models.EventDef, error) {
	if def, ok := e.Catalog.Event(key); ok {
		return def, nil
	}
	return nil, e.keyError(models.KindEvent, key)
}

// ValidateClicks checks a batched click count against MaxClicksPerRequest
func (e Engine) ValidateClicks(clicks int) error {
	if clicks < 1 || clicks > e.Config.MaxClicksPerRequest {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidClickCount, clicks, e.Config.MaxClicksPerRequest)
	}
	return nil
}

// ValidateAmount checks a purchase amount against MaxBulkPurchase
func (e Engine) ValidateAmount(amount int) error {
	if amount < 1 || amount > e.Config.MaxBulkPurchase {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidAmount, amount, e.Config.MaxBulkPurchase)
	}
	return nil
}
