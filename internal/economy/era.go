package economy

import (
	"fmt"
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// NaturalEra returns the highest era whose prestige count and seldon point thresholds
// are both met
func (e Engine) NaturalEra(p models.PrestigeState) int {
	natural := 0
	for _, era := range e.Catalog.Eras {
		if p.PrestigeCount >= era.MinPrestigeCount && p.TotalSeldonPoints >= era.MinTotalSeldonPoints {
			natural = max(natural, era.Index)
		}
	}
	return natural
}

// CurrentEra derives the era to store. It never decreases and advances at most one
// step above currentEra, however far the thresholds are exceeded.
func (e Engine) CurrentEra(currentEra int, p models.PrestigeState) int {
	next := min(e.NaturalEra(p), currentEra+1)
	return max(next, currentEra)
}

// PrestigeGain previews what a prestige would grant now
type PrestigeGain struct {
	SeldonPoints       int64   `json:"seldon_points"`
	TotalSeldonPoints  int64   `json:"total_seldon_points"`
	PrestigeMultiplier float64 `json:"prestige_multiplier"`
	NextEra            int     `json:"next_era"`
}

// PrestigePreview computes seldon points = floor(sqrt(lifetimeCredits / divisor)) and the
// resulting permanent multiplier 1 + totalSeldonPoints × SeldonPointBonus
func (e Engine) PrestigePreview(state *models.GameState) PrestigeGain {
	earned := int64(math.Floor(math.Sqrt(math.Max(0, state.LifetimeCredits) / e.Config.PrestigeCreditDivisor)))
	total := state.Prestige.TotalSeldonPoints + earned

	next := models.PrestigeState{
		SeldonPoints:      state.Prestige.SeldonPoints + earned,
		TotalSeldonPoints: total,
		PrestigeCount:     state.Prestige.PrestigeCount + 1,
	}
	// the multiplier only grows
	mult := math.Max(state.Prestige.Multiplier(), 1+float64(total)*e.Config.SeldonPointBonus)

	return PrestigeGain{
		SeldonPoints:       earned,
		TotalSeldonPoints:  total,
		PrestigeMultiplier: mult,
		NextEra:            e.CurrentEra(state.CurrentEra, next),
	}
}

// ApplyPrestige returns a reset snapshot: buildings, upgrades, resources, timed effects and
// the consumable are cleared; inventory, achievements, counters and prestige progress stay.
func (e Engine) ApplyPrestige(state *models.GameState, now time.Time) (*models.GameState, error) {
	gain := e.PrestigePreview(state)
	if gain.SeldonPoints < 1 {
		return nil, fmt.Errorf("%w: %.0f lifetime credits", ErrNothingToPrestige, state.LifetimeCredits)
	}

	next := state.Clone()
	next.Prestige = models.PrestigeState{
		SeldonPoints:       state.Prestige.SeldonPoints + gain.SeldonPoints,
		TotalSeldonPoints:  gain.TotalSeldonPoints,
		PrestigeCount:      state.Prestige.PrestigeCount + 1,
		PrestigeMultiplier: gain.PrestigeMultiplier,
	}
	next.CurrentEra = gain.NextEra
	next.Resources = models.Resources{}
	next.LifetimeCredits = 0
	next.ActiveEffects = nil
	next.ActiveConsumable = nil
	next.LastTickAt = now
	for i := range next.Buildings {
		next.Buildings[i].Count = 0
		next.Buildings[i].IsUnlocked = false
	}
	for i := range next.Upgrades {
		next.Upgrades[i].IsPurchased = false
	}
	e.RefreshUnlocks(next)
	next.ClickValue = e.ClickValue(next, now)
	return next, nil
}

// RefreshUnlocks marks buildings unlocked once their era and lifetime credit gates are
// met. Unlocks are one-way within a run.
func (e Engine) RefreshUnlocks(state *models.GameState) {
	for i := range state.Buildings {
		bs := &state.Buildings[i]
		if bs.IsUnlocked {
			continue
		}
		def, ok := e.Catalog.Building(bs.Key)
		if !ok {
			continue
		}
		if state.CurrentEra >= def.UnlockEra && state.LifetimeCredits >= def.UnlockLifetimeCredits {
			bs.IsUnlocked = true
		}
	}
}

// AchievementMet reports whether an achievement's requirement holds in state
func (e Engine) AchievementMet(state *models.GameState, def *models.AchievementDef) bool {
	r := def.Requirement
	switch r.Kind {
	case models.RequireTotalClicks:
		return float64(state.TotalClicks) >= r.Threshold
	case models.RequireLifetimeCredits:
		return state.LifetimeCredits >= r.Threshold
	case models.RequireBuildingCount:
		return float64(state.BuildingCount(r.Building)) >= r.Threshold
	case models.RequireTotalBuildings:
		return float64(state.TotalBuildings()) >= r.Threshold
	case models.RequirePrestigeCount:
		return float64(state.Prestige.PrestigeCount) >= r.Threshold
	}
	return false
}

// UnlockAchievements stamps now on every locked achievement whose requirement is met
// and returns the keys it unlocked
func (e Engine) UnlockAchievements(state *models.GameState, now time.Time) []string {
	var unlocked []string
	for i := range state.Achievements {
		as := &state.Achievements[i]
		if as.Unlocked() {
			continue
		}
		def, ok := e.Catalog.Achievement(as.Key)
		if !ok || !e.AchievementMet(state, def) {
			continue
		}
		t := now
		as.UnlockedAt = &t
		unlocked = append(unlocked, as.Key)
	}
	return unlocked
}
