package economy

import (
	"math"

	"github.com/napolitain/seldon-idle/internal/models"
)

// GrowthRate returns the building's cost growth, falling back to DefaultGrowthRate
func (e Engine) GrowthRate(def *models.BuildingDef) float64 {
	if def.GrowthRate > 1 {
		return def.GrowthRate
	}
	return e.Config.DefaultGrowthRate
}

// UnitCost returns baseCost × growth^owned
func UnitCost(baseCost, growth float64, owned int) float64 {
	return baseCost * math.Pow(growth, float64(owned))
}

// BulkCost returns the closed-form geometric sum of buying amount units starting at owned:
// baseCost × growth^owned × (growth^amount − 1) / (growth − 1)
func BulkCost(baseCost, growth float64, owned, amount int) float64 {
	if amount <= 0 || baseCost <= 0 {
		return 0
	}
	if amount == 1 {
		return UnitCost(baseCost, growth, owned)
	}
	return UnitCost(baseCost, growth, owned) * (math.Pow(growth, float64(amount)) - 1) / (growth - 1)
}

// maxSolvedAmount bounds MaxAffordable for effectively unlimited budgets
const maxSolvedAmount = 1 << 20

// MaxAffordable solves BulkCost(...) <= budget for the largest integer amount.
// Returns 0 when not even one unit fits, or when the cost is not positive.
func MaxAffordable(baseCost, growth float64, owned int, budget float64) int {
	if baseCost <= 0 || budget <= 0 || growth <= 1 || math.IsNaN(budget) {
		return 0
	}
	if math.IsInf(budget, 1) {
		return maxSolvedAmount
	}
	first := UnitCost(baseCost, growth, owned)
	if first > budget {
		return 0
	}

	// Inverse of the closed form, then nudge to absorb floating point error
	nf := math.Floor(math.Log(budget*(growth-1)/first+1) / math.Log(growth))
	n := int(math.Max(0, math.Min(nf, maxSolvedAmount)))
	for n > 0 && BulkCost(baseCost, growth, owned, n) > budget {
		n--
	}
	for n < maxSolvedAmount && BulkCost(baseCost, growth, owned, n+1) <= budget {
		n++
	}
	return n
}

// BuildingCost returns the cost of the next single unit
func (e Engine) BuildingCost(def *models.BuildingDef, owned int) models.Resources {
	return e.BulkBuildingCost(def, owned, 1)
}

// BulkBuildingCost returns the per-resource cost of buying amount units starting at owned
func (e Engine) BulkBuildingCost(def *models.BuildingDef, owned, amount int) models.Resources {
	growth := e.GrowthRate(def)
	var cost models.Resources
	def.BaseCost.EachNonZero(func(rt models.ResourceType, base float64) {
		cost.Set(rt, BulkCost(base, growth, owned, amount))
	})
	return cost
}

// MaxAffordableBuilding returns how many units the budget buys. The bottleneck resource
// decides: the result is the minimum over every costed resource.
func (e Engine) MaxAffordableBuilding(def *models.BuildingDef, owned int, budget models.Resources) int {
	growth := e.GrowthRate(def)
	best := -1
	def.BaseCost.EachNonZero(func(rt models.ResourceType, base float64) {
		n := MaxAffordable(base, growth, owned, budget.Get(rt))
		if best < 0 || n < best {
			best = n
		}
	})
	if best < 0 {
		return 0
	}
	return best
}

// CanAfford reports whether have covers cost for every resource
func CanAfford(have, cost models.Resources) bool {
	return have.Covers(cost)
}

// BuildingPurchaseCost validates a purchase request and returns its total cost
func (e Engine) BuildingPurchaseCost(state *models.GameState, key string, amount int) (models.Resources, error) {
	def, err := e.LookupBuilding(key)
	if err != nil {
		return models.Resources{}, err
	}
	if err := e.ValidateAmount(amount); err != nil {
		return models.Resources{}, err
	}
	return e.BulkBuildingCost(def, state.BuildingCount(key), amount), nil
}

// CanAffordBuilding reports whether the state's resources cover amount units of a building
func (e Engine) CanAffordBuilding(state *models.GameState, key string, amount int) (bool, error) {
	cost, err := e.BuildingPurchaseCost(state, key, amount)
	if err != nil {
		return false, err
	}
	return CanAfford(state.Resources, cost), nil
}

// CanAffordUpgrade reports whether the state's resources cover an upgrade
func (e Engine) CanAffordUpgrade(state *models.GameState, key string) (bool, error) {
	def, err := e.LookupUpgrade(key)
	if err != nil {
		return false, err
	}
	return CanAfford(state.Resources, def.Cost), nil
}
