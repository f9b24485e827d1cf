package models

import "time"

// BuildingState tracks how many units of a building the player owns
type BuildingState struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	IsUnlocked bool   `json:"is_unlocked"`
}

// UpgradeState tracks whether an upgrade was purchased (false -> true only)
type UpgradeState struct {
	Key         string `json:"key"`
	IsPurchased bool   `json:"is_purchased"`
}

// AchievementState tracks when an achievement was unlocked (nil = locked)
type AchievementState struct {
	Key        string     `json:"key"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Unlocked reports whether the achievement has been earned
func (a AchievementState) Unlocked() bool {
	return a.UnlockedAt != nil
}

// ActiveEffect is a timed modifier. It dies when now >= ExpiresAt.
type ActiveEffect struct {
	ID         string           `json:"id"`
	EventKey   string           `json:"event_key"`
	Type       ActiveEffectType `json:"type"`
	Resource   ResourceType     `json:"resource,omitempty"`
	Multiplier float64          `json:"multiplier"`
	StartedAt  time.Time        `json:"started_at"`
	ExpiresAt  time.Time        `json:"expires_at"`
}

// IsActive uses an exclusive upper bound: an effect at exactly ExpiresAt is expired
func (e ActiveEffect) IsActive(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// InventoryItem is a stack of owned items
type InventoryItem struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
}

// ActiveConsumable is the single running consumable
type ActiveConsumable struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsActive uses the same exclusive bound as ActiveEffect
func (c *ActiveConsumable) IsActive(now time.Time) bool {
	return c != nil && now.Before(c.ExpiresAt)
}

// PrestigeState holds the permanent progression counters
type PrestigeState struct {
	SeldonPoints       int64   `json:"seldon_points"`
	TotalSeldonPoints  int64   `json:"total_seldon_points"`
	PrestigeCount      int     `json:"prestige_count"`
	PrestigeMultiplier float64 `json:"prestige_multiplier"`
}

// Multiplier returns the prestige multiplier, treating an unset value as 1
func (p PrestigeState) Multiplier() float64 {
	if p.PrestigeMultiplier <= 0 {
		return 1
	}
	return p.PrestigeMultiplier
}

// GameState is the full snapshot the engine reads. ClickValue is a cache, not authoritative.
type GameState struct {
	Resources        Resources          `json:"resources"`
	ClickValue       float64            `json:"click_value"`
	CurrentEra       int                `json:"current_era"`
	Prestige         PrestigeState      `json:"prestige"`
	Buildings        []BuildingState    `json:"buildings"`
	Upgrades         []UpgradeState     `json:"upgrades"`
	Achievements     []AchievementState `json:"achievements"`
	ActiveEffects    []ActiveEffect     `json:"active_effects"`
	Inventory        []InventoryItem    `json:"inventory"`
	ActiveConsumable *ActiveConsumable  `json:"active_consumable,omitempty"`
	LastTickAt       time.Time          `json:"last_tick_at"`
	TotalPlayTime    float64            `json:"total_play_time"`
	TotalClicks      int64              `json:"total_clicks"`
	LifetimeCredits  float64            `json:"lifetime_credits"`
}

// NewGameState creates an empty game state with one entry per catalog definition
func NewGameState(c *Catalog, now time.Time) *GameState {
	gs := &GameState{
		Prestige:   PrestigeState{PrestigeMultiplier: 1},
		LastTickAt: now,
	}
	if c == nil {
		return gs
	}
	for _, b := range c.Buildings {
		gs.Buildings = append(gs.Buildings, BuildingState{Key: b.Key})
	}
	for _, u := range c.Upgrades {
		gs.Upgrades = append(gs.Upgrades, UpgradeState{Key: u.Key})
	}
	for _, a := range c.Achievements {
		gs.Achievements = append(gs.Achievements, AchievementState{Key: a.Key})
	}
	return gs
}

// Clone returns a deep copy so simulations never alias the caller's snapshot
func (s *GameState) Clone() *GameState {
	c := *s
	c.Buildings = append([]BuildingState(nil), s.Buildings...)
	c.Upgrades = append([]UpgradeState(nil), s.Upgrades...)
	c.Achievements = make([]AchievementState, len(s.Achievements))
	for i, a := range s.Achievements {
		c.Achievements[i] = a
		if a.UnlockedAt != nil {
			t := *a.UnlockedAt
			c.Achievements[i].UnlockedAt = &t
		}
	}
	c.ActiveEffects = append([]ActiveEffect(nil), s.ActiveEffects...)
	c.Inventory = append([]InventoryItem(nil), s.Inventory...)
	if s.ActiveConsumable != nil {
		ac := *s.ActiveConsumable
		c.ActiveConsumable = &ac
	}
	return &c
}

// Building returns the state entry for a building key, or nil
func (s *GameState) Building(key string) *BuildingState {
	for i := range s.Buildings {
		if s.Buildings[i].Key == key {
			return &s.Buildings[i]
		}
	}
	return nil
}

// BuildingCount returns the owned count of a building (0 if absent)
func (s *GameState) BuildingCount(key string) int {
	if b := s.Building(key); b != nil {
		return b.Count
	}
	return 0
}

// TotalBuildings returns the number of owned units across all buildings
func (s *GameState) TotalBuildings() int {
	total := 0
	for _, b := range s.Buildings {
		total += b.Count
	}
	return total
}

// Upgrade returns the state entry for an upgrade key, or nil
func (s *GameState) Upgrade(key string) *UpgradeState {
	for i := range s.Upgrades {
		if s.Upgrades[i].Key == key {
			return &s.Upgrades[i]
		}
	}
	return nil
}

// UpgradePurchased reports whether an upgrade has been bought
func (s *GameState) UpgradePurchased(key string) bool {
	u := s.Upgrade(key)
	return u != nil && u.IsPurchased
}

// Achievement returns the state entry for an achievement key, or nil
func (s *GameState) Achievement(key string) *AchievementState {
	for i := range s.Achievements {
		if s.Achievements[i].Key == key {
			return &s.Achievements[i]
		}
	}
	return nil
}

// Item returns the inventory entry for an item key, or nil
func (s *GameState) Item(key string) *InventoryItem {
	for i := range s.Inventory {
		if s.Inventory[i].Key == key {
			return &s.Inventory[i]
		}
	}
	return nil
}
