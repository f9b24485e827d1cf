// Package game runs player requests against the economy engine. Each request loads the
// player's snapshot, catches it up to now, applies one change and persists the result.
// Requests for the same user are serialized.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/seldon-idle/internal/clock"
	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/models"
	"github.com/napolitain/seldon-idle/internal/store"
)

// Service is safe for concurrent use
type Service struct {
	engine economy.Engine
	store  store.Store
	clock  clock.Clock
	log    *slog.Logger
	locks  *userLocks
}

// NewService creates a service. A nil log falls back to slog.Default.
func NewService(engine economy.Engine, st store.Store, clk clock.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		engine: engine,
		store:  st,
		clock:  clk,
		log:    log,
		locks:  newUserLocks(),
	}
}

// Engine returns the engine the service computes with
func (s *Service) Engine() economy.Engine {
	return s.engine
}

// Outcome is the result of one request. State is the persisted snapshot after the change.
type Outcome struct {
	State        *models.GameState      `json:"state"`
	Rates        models.Resources       `json:"rates"`
	Offline      *economy.OfflineResult `json:"offline,omitempty"`
	Click        *economy.ClickResult   `json:"click,omitempty"`
	Spent        *models.Resources      `json:"spent,omitempty"`
	Prestige     *economy.PrestigeGain  `json:"prestige,omitempty"`
	Effect       *models.ActiveEffect   `json:"effect,omitempty"`
	Achievements []string               `json:"achievements,omitempty"`
	Stale        bool                   `json:"stale,omitempty"`
}

type mutation func(state *models.GameState, now time.Time, out *Outcome) error

// Load returns the player's state advanced to now. A new player starts from an empty
// state. After an absence the player is paid capped offline earnings instead of a full
// projection.
func (s *Service) Load(ctx context.Context, userID string) (*Outcome, error) {
	return s.update(ctx, userID, "load", true, func(*models.GameState, time.Time, *Outcome) error {
		return nil
	})
}

// Click applies a batch of clicks
func (s *Service) Click(ctx context.Context, userID string, clicks int) (*Outcome, error) {
	return s.update(ctx, userID, "click", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		res, err := s.engine.Click(state, now, clicks)
		if err != nil {
			return err
		}
		state.Resources = state.Resources.Add(res.Gained)
		state.LifetimeCredits += res.Credits
		state.TotalClicks += int64(clicks)
		out.Click = &res
		return nil
	})
}

// BuyBuilding buys amount units of a building
func (s *Service) BuyBuilding(ctx context.Context, userID, key string, amount int) (*Outcome, error) {
	return s.update(ctx, userID, "buy_building", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		cost, err := s.engine.BuildingPurchaseCost(state, key, amount)
		if err != nil {
			return err
		}
		bs := state.Building(key)
		if bs == nil || !bs.IsUnlocked {
			return fmt.Errorf("%w: building %q", ErrLocked, key)
		}
		if !economy.CanAfford(state.Resources, cost) {
			return fmt.Errorf("%w: %d x %s", ErrCannotAfford, amount, key)
		}
		state.Resources = state.Resources.Sub(cost)
		bs.Count += amount
		out.Spent = &cost
		return nil
	})
}

// BuyUpgrade buys a single upgrade
func (s *Service) BuyUpgrade(ctx context.Context, userID, key string) (*Outcome, error) {
	return s.update(ctx, userID, "buy_upgrade", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		def, err := s.engine.LookupUpgrade(key)
		if err != nil {
			return err
		}
		us := state.Upgrade(key)
		if us == nil {
			return fmt.Errorf("%w: upgrade %q", ErrLocked, key)
		}
		if us.IsPurchased {
			return fmt.Errorf("%w: upgrade %q", ErrAlreadyPurchased, key)
		}
		if !s.engine.UpgradeAvailable(state, def) {
			return fmt.Errorf("%w: upgrade %q", ErrLocked, key)
		}
		if !economy.CanAfford(state.Resources, def.Cost) {
			return fmt.Errorf("%w: upgrade %q", ErrCannotAfford, key)
		}
		state.Resources = state.Resources.Sub(def.Cost)
		us.IsPurchased = true
		cost := def.Cost
		out.Spent = &cost
		return nil
	})
}

// GrantItem adds items to the player's inventory
func (s *Service) GrantItem(ctx context.Context, userID, key string, quantity int) (*Outcome, error) {
	return s.update(ctx, userID, "grant_item", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		if _, err := s.engine.LookupItem(key); err != nil {
			return err
		}
		if err := s.engine.ValidateAmount(quantity); err != nil {
			return err
		}
		if it := state.Item(key); it != nil {
			it.Quantity += quantity
			return nil
		}
		state.Inventory = append(state.Inventory, models.InventoryItem{Key: key, Quantity: quantity})
		return nil
	})
}

// ActivateConsumable uses one consumable from the inventory. Only one runs at a time.
func (s *Service) ActivateConsumable(ctx context.Context, userID, key string) (*Outcome, error) {
	return s.update(ctx, userID, "activate_consumable", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		def, err := s.engine.LookupItem(key)
		if err != nil {
			return err
		}
		if def.Category != models.Consumable {
			return fmt.Errorf("%w: %q", ErrNotConsumable, key)
		}
		if state.ActiveConsumable.IsActive(now) {
			return fmt.Errorf("%w: %q until %s", ErrConsumableActive,
				state.ActiveConsumable.Key, state.ActiveConsumable.ExpiresAt.Format(time.RFC3339))
		}
		it := state.Item(key)
		if it == nil || it.Quantity < 1 {
			return fmt.Errorf("%w: %q", ErrNotInInventory, key)
		}
		it.Quantity--
		if it.Quantity == 0 {
			removeItem(state, key)
		}
		state.ActiveConsumable = &models.ActiveConsumable{
			Key:       key,
			ExpiresAt: now.Add(time.Duration(def.DurationSeconds) * time.Second),
		}
		return nil
	})
}

// TriggerEvent starts a timed effect from an event template
func (s *Service) TriggerEvent(ctx context.Context, userID, key string) (*Outcome, error) {
	return s.update(ctx, userID, "trigger_event", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		def, err := s.engine.LookupEvent(key)
		if err != nil {
			return err
		}
		eff := models.ActiveEffect{
			ID:         uuid.NewString(),
			EventKey:   def.Key,
			Type:       def.Type,
			Resource:   def.Resource,
			Multiplier: def.Multiplier,
			StartedAt:  now,
			ExpiresAt:  now.Add(time.Duration(def.DurationSeconds) * time.Second),
		}
		state.ActiveEffects = append(state.ActiveEffects, eff)
		out.Effect = &eff
		return nil
	})
}

// Prestige resets the run for seldon points
func (s *Service) Prestige(ctx context.Context, userID string) (*Outcome, error) {
	return s.update(ctx, userID, "prestige", true, func(state *models.GameState, now time.Time, out *Outcome) error {
		gain := s.engine.PrestigePreview(state)
		next, err := s.engine.ApplyPrestige(state, now)
		if errors.Is(err, economy.ErrNothingToPrestige) {
			return fmt.Errorf("%w: %.0f lifetime credits", ErrNothingToPrestige, state.LifetimeCredits)
		}
		if err != nil {
			return err
		}
		*state = *next
		out.Prestige = &gain
		return nil
	})
}

// Save reconciles a client save with the persisted state. The persisted state is not
// caught up first: the client's LastTickAt is compared against the last persisted tick.
func (s *Service) Save(ctx context.Context, userID string, payload economy.SavePayload) (*Outcome, error) {
	return s.update(ctx, userID, "save", false, func(state *models.GameState, now time.Time, out *Outcome) error {
		if err := validateSave(payload, now); err != nil {
			return err
		}
		res := economy.ReconcileSave(state, payload)
		if res.Stale {
			s.log.Warn("Stale save ignored",
				"user_id", userID,
				"client_tick", payload.LastTickAt,
				"persisted_tick", state.LastTickAt)
		}
		*state = *res.State
		out.Stale = res.Stale
		return nil
	})
}

// PrestigePreview reports what a prestige would grant now without changing anything
func (s *Service) PrestigePreview(ctx context.Context, userID string) (economy.PrestigeGain, error) {
	var gain economy.PrestigeGain
	err := s.read(ctx, userID, func(state *models.GameState, now time.Time) {
		gain = s.engine.PrestigePreview(state)
	})
	return gain, err
}

// Rankings is the credit efficiency of the next building and upgrade purchases
type Rankings struct {
	Buildings []economy.Efficiency `json:"buildings"`
	Upgrades  []economy.Efficiency `json:"upgrades"`
}

// Rankings ranks purchases for the player's projected state
func (s *Service) Rankings(ctx context.Context, userID string) (*Rankings, error) {
	var r Rankings
	err := s.read(ctx, userID, func(state *models.GameState, now time.Time) {
		r.Buildings = s.engine.BuildingCreditEfficiencies(state, now)
		r.Upgrades = s.engine.UpgradeCreditEfficiencies(state, now)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func validateSave(p economy.SavePayload, now time.Time) error {
	if p.LastTickAt.IsZero() {
		return fmt.Errorf("%w: last_tick_at is required", ErrInvalidSave)
	}
	if p.LastTickAt.After(now) {
		return fmt.Errorf("%w: last_tick_at %s is in the future", ErrInvalidSave, p.LastTickAt.Format(time.RFC3339))
	}
	bad := false
	p.Resources.Each(func(_ models.ResourceType, v float64) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			bad = true
		}
	})
	if bad || p.LifetimeCredits < 0 || p.TotalPlayTime < 0 || p.TotalClicks < 0 {
		return fmt.Errorf("%w: negative or non-finite values", ErrInvalidSave)
	}
	return nil
}

// update serializes a read-modify-write for one user. A failed mutation persists nothing.
func (s *Service) update(ctx context.Context, userID, op string, catchUp bool, fn mutation) (*Outcome, error) {
	start := time.Now()
	unlock := s.locks.lock(userID)
	defer unlock()

	now := s.clock.Now()
	state, err := s.get(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	if catchUp {
		out.Offline = s.catchUp(state, now)
	}
	pruneExpired(state, now)

	if err := fn(state, now, out); err != nil {
		s.log.Debug("Request refused", "op", op, "user_id", userID, "error", err)
		return nil, err
	}

	s.engine.RefreshUnlocks(state)
	out.Achievements = s.engine.UnlockAchievements(state, now)
	state.ClickValue = s.engine.ClickValue(state, now)

	if err := s.store.Put(ctx, userID, state); err != nil {
		s.log.Error("Failed to save game state", "op", op, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	if len(out.Achievements) > 0 {
		s.log.Info("Achievements unlocked", "user_id", userID, "keys", out.Achievements)
	}
	s.log.Debug("Request handled", "op", op, "user_id", userID, "took", time.Since(start))

	out.State = state
	out.Rates = s.engine.ProductionRates(state, now)
	return out, nil
}

// read runs fn on a projected copy of the state. Nothing is persisted.
func (s *Service) read(ctx context.Context, userID string, fn func(*models.GameState, time.Time)) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	now := s.clock.Now()
	state, err := s.get(ctx, userID, now)
	if err != nil {
		return err
	}
	s.catchUp(state, now)
	pruneExpired(state, now)
	fn(state, now)
	return nil
}

func (s *Service) get(ctx context.Context, userID string, now time.Time) (*models.GameState, error) {
	state, err := s.store.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Info("New player", "user_id", userID)
		state = models.NewGameState(s.engine.Catalog, now)
		state.ClickValue = s.engine.ClickValue(state, now)
		s.engine.RefreshUnlocks(state)
		return state, nil
	}
	if err != nil {
		s.log.Error("Failed to load game state", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	SyncCatalog(state, s.engine.Catalog)
	return state, nil
}

// catchUp advances the state to now. An absence longer than the active play threshold
// pays capped offline earnings; a shorter gap is a full projection.
func (s *Service) catchUp(state *models.GameState, now time.Time) *economy.OfflineResult {
	elapsed := now.Sub(state.LastTickAt).Seconds()
	if elapsed <= 0 {
		return nil
	}

	if !s.engine.IsOffline(elapsed) {
		s.engine.ProjectResources(state, now).Apply(state)
		state.TotalPlayTime += elapsed
		return nil
	}

	res := s.engine.OfflineEarnings(state, elapsed, now)
	state.Resources = state.Resources.Add(res.Earnings)
	state.LifetimeCredits += res.Earnings.Credits
	state.LastTickAt = now
	return &res
}

func pruneExpired(state *models.GameState, now time.Time) {
	live := state.ActiveEffects[:0]
	for _, eff := range state.ActiveEffects {
		if eff.IsActive(now) {
			live = append(live, eff)
		}
	}
	state.ActiveEffects = live
	if !state.ActiveConsumable.IsActive(now) {
		state.ActiveConsumable = nil
	}
}

// SyncCatalog adds state entries for content added after the state was saved
func SyncCatalog(state *models.GameState, c *models.Catalog) {
	for _, def := range c.Buildings {
		if state.Building(def.Key) == nil {
			state.Buildings = append(state.Buildings, models.BuildingState{Key: def.Key})
		}
	}
	for _, def := range c.Upgrades {
		if state.Upgrade(def.Key) == nil {
			state.Upgrades = append(state.Upgrades, models.UpgradeState{Key: def.Key})
		}
	}
	for _, def := range c.Achievements {
		if state.Achievement(def.Key) == nil {
			state.Achievements = append(state.Achievements, models.AchievementState{Key: def.Key})
		}
	}
}

func removeItem(state *models.GameState, key string) {
	for i := range state.Inventory {
		if state.Inventory[i].Key == key {
			state.Inventory = append(state.Inventory[:i], state.Inventory[i+1:]...)
			return
		}
	}
}
