package economy

import (
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// ProductionRates returns the per-second production of every resource.
// rate = Σ(count × base × perBuilding) × perResource × global × achievementGlobal × prestige
func (e Engine) ProductionRates(state *models.GameState, now time.Time) models.Resources {
	return e.productionRates(state, e.CollectMultipliers(state, now))
}

func (e Engine) productionRates(state *models.GameState, m MultiplierSet) models.Resources {
	raw := e.rawProduction(state, m.Building)

	outer := m.Global * m.AchievementGlobal * state.Prestige.Multiplier()
	var rates models.Resources
	raw.Each(func(rt models.ResourceType, v float64) {
		rates.Set(rt, v*m.Resource(rt)*outer)
	})
	return rates
}

// rawProduction sums count × base production over owned buildings, scaled per building by
// perBuilding. Resource, global and prestige multipliers are not applied.
func (e Engine) rawProduction(state *models.GameState, perBuilding func(key string) float64) models.Resources {
	var raw models.Resources
	for _, bs := range state.Buildings {
		if bs.Count <= 0 {
			continue
		}
		def, ok := e.Catalog.Building(bs.Key)
		if !ok {
			continue
		}
		bm := perBuilding(bs.Key)
		def.Production.EachNonZero(func(rt models.ResourceType, amount float64) {
			raw.Set(rt, raw.Get(rt)+float64(bs.Count)*amount*bm)
		})
	}
	return raw
}

func unscaled(string) float64 { return 1 }

// BuildingUnitRates returns what one unit of a building produces under the current
// multiplier stack. Multipliers are keyed by building, so this is not in general
// ProductionRates / count.
func (e Engine) BuildingUnitRates(key string, state *models.GameState, now time.Time) ([]models.ResourceAmount, error) {
	def, err := e.LookupBuilding(key)
	if err != nil {
		return nil, err
	}
	return e.buildingUnitRates(def, state, e.CollectMultipliers(state, now)), nil
}

func (e Engine) buildingUnitRates(def *models.BuildingDef, state *models.GameState, m MultiplierSet) []models.ResourceAmount {
	outer := m.Building(def.Key) * m.Global * m.AchievementGlobal * state.Prestige.Multiplier()
	out := def.ProducedResources()
	for i := range out {
		out[i].Amount *= m.Resource(out[i].Resource) * outer
	}
	return out
}

// CreditRate is a shortcut for ProductionRates(...).Credits
func (e Engine) CreditRate(state *models.GameState, now time.Time) float64 {
	return e.ProductionRates(state, now).Credits
}
