package economy

import (
	"sort"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Efficiency ranks one purchase candidate by credit-rate gained per credit spent
type Efficiency struct {
	Key                   string  `json:"key"`
	MarginalCreditsPerSec float64 `json:"marginal_credits_per_sec"`
	CreditCost            float64 `json:"credit_cost"`
	Efficiency            float64 `json:"efficiency"`
}

func newEfficiency(key string, gain, cost float64) Efficiency {
	return Efficiency{
		Key:                   key,
		MarginalCreditsPerSec: gain,
		CreditCost:            cost,
		Efficiency:            gain / cost,
	}
}

// sortByEfficiency sorts descending; ties keep input (catalog) order
func sortByEfficiency(list []Efficiency) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Efficiency > list[j].Efficiency
	})
}

// BuildingCreditEfficiencies ranks unlocked, credit-costed, credit-producing buildings by
// the next unit's credit output over the next unit's credit cost.
func (e Engine) BuildingCreditEfficiencies(state *models.GameState, now time.Time) []Efficiency {
	m := e.CollectMultipliers(state, now)

	var out []Efficiency
	for _, bs := range state.Buildings {
		if !bs.IsUnlocked {
			continue
		}
		def, ok := e.Catalog.Building(bs.Key)
		if !ok || def.BaseCost.Credits <= 0 || def.Production.Credits <= 0 {
			continue
		}

		var gain float64
		for _, ra := range e.buildingUnitRates(def, state, m) {
			if ra.Resource == models.Credits {
				gain = ra.Amount
			}
		}
		cost := UnitCost(def.BaseCost.Credits, e.GrowthRate(def), bs.Count)
		out = append(out, newEfficiency(def.Key, gain, cost))
	}

	sortByEfficiency(out)
	return out
}

// UpgradeAvailable reports whether an upgrade's requirements are met in state
func (e Engine) UpgradeAvailable(state *models.GameState, def *models.UpgradeDef) bool {
	if state.CurrentEra < def.Requires.Era {
		return false
	}
	if def.Requires.Building != "" && state.BuildingCount(def.Requires.Building) < def.Requires.Count {
		return false
	}
	return true
}

// UpgradeCreditEfficiencies ranks unpurchased, available, credit-costed production upgrades.
// Each candidate is simulated on a cloned state with that single upgrade purchased; the
// credit-rate delta is its marginal gain. Candidates with no positive delta are dropped.
func (e Engine) UpgradeCreditEfficiencies(state *models.GameState, now time.Time) []Efficiency {
	baseRate := e.CreditRate(state, now)

	var out []Efficiency
	for _, def := range e.Catalog.Upgrades {
		us := state.Upgrade(def.Key)
		if us == nil || us.IsPurchased {
			continue
		}
		if def.Cost.Credits <= 0 || !def.AffectsProduction() || !e.UpgradeAvailable(state, def) {
			continue
		}

		sim := state.Clone()
		sim.Upgrade(def.Key).IsPurchased = true
		delta := e.CreditRate(sim, now) - baseRate
		if delta <= 0 {
			continue
		}
		out = append(out, newEfficiency(def.Key, delta, def.Cost.Credits))
	}

	sortByEfficiency(out)
	return out
}
