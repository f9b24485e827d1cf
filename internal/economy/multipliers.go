// Package economy is the game economy engine: production, click value, costs,
// investment efficiency, time reconciliation and era progression.
//
// Every function is a pure computation over a GameState snapshot and an explicit now.
// Nothing here does I/O or keeps state between calls.
package economy

import (
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Engine binds the read-only catalog and tuning constants
type Engine struct {
	Catalog *models.Catalog
	Config  Config
}

// New creates an engine
func New(catalog *models.Catalog, cfg Config) Engine {
	return Engine{Catalog: catalog, Config: cfg}
}

// MultiplierSet is the normalized product of every active bonus source.
// The prestige multiplier is deliberately absent: callers apply it exactly once.
type MultiplierSet struct {
	PerBuilding map[string]float64
	PerResource map[models.ResourceType]float64

	// Global holds upgrade, timed effect, artifact and consumable global multipliers
	Global float64

	// AchievementGlobal holds achievement global multipliers only
	AchievementGlobal float64

	// ClickOnly never touches production rates
	ClickOnly float64
}

func newMultiplierSet() MultiplierSet {
	return MultiplierSet{
		PerBuilding:       make(map[string]float64),
		PerResource:       make(map[models.ResourceType]float64),
		Global:            1,
		AchievementGlobal: 1,
		ClickOnly:         1,
	}
}

// Building returns the multiplier for a building (1 if none)
func (m MultiplierSet) Building(key string) float64 {
	if v, ok := m.PerBuilding[key]; ok {
		return v
	}
	return 1
}

// Resource returns the multiplier for a resource (1 if none)
func (m MultiplierSet) Resource(rt models.ResourceType) float64 {
	if v, ok := m.PerResource[rt]; ok {
		return v
	}
	return 1
}

func (m *MultiplierSet) mulBuilding(key string, f float64) {
	m.PerBuilding[key] = m.Building(key) * f
}

func (m *MultiplierSet) mulResource(rt models.ResourceType, f float64) {
	m.PerResource[rt] = m.Resource(rt) * f
}

// apply folds one multiplier effect into its bucket `times` times.
// Additive click effects are handled by the click calculator and skipped here.
func (m *MultiplierSet) apply(eff models.Effect, times int, achievement bool) {
	if times <= 0 {
		return
	}
	f := eff.Multiplier
	if times > 1 {
		f = math.Pow(eff.Multiplier, float64(times))
	}
	switch eff.Kind {
	case models.BuildingMultiplier:
		m.mulBuilding(eff.Building, f)
	case models.ResourceMultiplier:
		m.mulResource(eff.Resource, f)
	case models.GlobalMultiplier:
		if achievement {
			m.AchievementGlobal *= f
		} else {
			m.Global *= f
		}
	case models.ClickMultiplier:
		m.ClickOnly *= f
	case models.ClickFlatPerBuilding, models.ClickScalePerBuilding,
		models.ClickScalePerTotalBuildings, models.ClickResourceYield:
		// additive click bonuses, see click.go
	}
}

// CollectMultipliers gathers every active bonus source into a MultiplierSet.
// Sources: purchased upgrades, unlocked achievements, unexpired timed effects,
// artifacts (multiplier^quantity) and the active consumable (once).
func (e Engine) CollectMultipliers(state *models.GameState, now time.Time) MultiplierSet {
	m := newMultiplierSet()

	for _, us := range state.Upgrades {
		if !us.IsPurchased {
			continue
		}
		def, ok := e.Catalog.Upgrade(us.Key)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			m.apply(eff, 1, false)
		}
	}

	for _, as := range state.Achievements {
		if !as.Unlocked() {
			continue
		}
		def, ok := e.Catalog.Achievement(as.Key)
		if !ok {
			continue
		}
		for _, eff := range def.Rewards {
			m.apply(eff, 1, true)
		}
	}

	for _, ae := range state.ActiveEffects {
		if !ae.IsActive(now) {
			continue
		}
		switch ae.Type {
		case models.ProductionBuff, models.ProductionDebuff:
			m.mulResource(ae.Resource, ae.Multiplier)
		case models.GlobalProductionBuff, models.GlobalProductionDebuff:
			m.Global *= ae.Multiplier
		case models.ClickBuff, models.ClickDebuff:
			m.ClickOnly *= ae.Multiplier
		}
	}

	for _, inv := range state.Inventory {
		if inv.Quantity <= 0 {
			continue
		}
		def, ok := e.Catalog.Item(inv.Key)
		if !ok || def.Category != models.Artifact {
			continue
		}
		// N relics stack independently: multiplier^N
		for _, eff := range def.Effects {
			m.apply(eff, inv.Quantity, false)
		}
	}

	if state.ActiveConsumable.IsActive(now) {
		if def, ok := e.Catalog.Item(state.ActiveConsumable.Key); ok {
			for _, eff := range def.Effects {
				m.apply(eff, 1, false)
			}
		}
	}

	return m
}
