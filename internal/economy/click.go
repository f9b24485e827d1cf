package economy

import (
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// ClickBreakdown exposes every factor of a single click's credit value
type ClickBreakdown struct {
	BaseCreditRate         float64 `json:"base_credit_rate"`
	BaseClick              float64 `json:"base_click"`
	PerBuildingFlatBonus   float64 `json:"per_building_flat_bonus"`
	ClickOnlyMultiplier    float64 `json:"click_only_multiplier"`
	BuildingScaleMult      float64 `json:"building_scale_mult"`
	TotalBuildingScaleMult float64 `json:"total_building_scale_mult"`
	PrestigeMultiplier     float64 `json:"prestige_multiplier"`
	Value                  float64 `json:"value"`
}

// ClickResult is the outcome of a batch of clicks
type ClickResult struct {
	Clicks      int              `json:"clicks"`
	ValuePerHit float64          `json:"value_per_hit"`
	Credits     float64          `json:"credits"`
	Yields      models.Resources `json:"yields"` // bonus resources, credits field unused
	Gained      models.Resources `json:"gained"` // credits + yields
}

// ClickValue returns the credit value of one click
func (e Engine) ClickValue(state *models.GameState, now time.Time) float64 {
	return e.ClickBreakdown(state, now).Value
}

// ClickBreakdown computes
// (max(MinClickValue, rawCreditRate × fraction) + flat) × clickOnly × buildingScale × totalScale × prestige
func (e Engine) ClickBreakdown(state *models.GameState, now time.Time) ClickBreakdown {
	b := ClickBreakdown{
		ClickOnlyMultiplier:    e.CollectMultipliers(state, now).ClickOnly,
		BuildingScaleMult:      1,
		TotalBuildingScaleMult: 1,
		PrestigeMultiplier:     state.Prestige.Multiplier(),
	}

	b.BaseCreditRate = e.rawProduction(state, unscaled).Credits
	b.BaseClick = math.Max(e.Config.MinClickValue, b.BaseCreditRate*e.Config.ClickProductionFraction)

	total := float64(state.TotalBuildings())
	e.eachPurchasedEffect(state, func(eff models.Effect) {
		switch eff.Kind {
		case models.ClickFlatPerBuilding:
			b.PerBuildingFlatBonus += eff.Amount * float64(state.BuildingCount(eff.Building))
		case models.ClickScalePerBuilding:
			b.BuildingScaleMult *= 1 + eff.Amount*float64(state.BuildingCount(eff.Building))
		case models.ClickScalePerTotalBuildings:
			b.TotalBuildingScaleMult *= 1 + eff.Amount*total
		case models.BuildingMultiplier, models.ResourceMultiplier, models.GlobalMultiplier,
			models.ClickMultiplier, models.ClickResourceYield:
			// multipliers come from CollectMultipliers; yields from ClickResourceYields
		}
	})

	b.Value = (b.BaseClick + b.PerBuildingFlatBonus) *
		b.ClickOnlyMultiplier * b.BuildingScaleMult * b.TotalBuildingScaleMult * b.PrestigeMultiplier
	return b
}

// ClickResourceYields returns bonus resources granted per click: for every purchased
// "click yields X% as R" effect, yields[R] += creditClickValue × X. Fractions add.
func (e Engine) ClickResourceYields(state *models.GameState, creditClickValue float64) models.Resources {
	var fractions models.Resources
	e.eachPurchasedEffect(state, func(eff models.Effect) {
		if eff.Kind == models.ClickResourceYield {
			fractions.Set(eff.Resource, fractions.Get(eff.Resource)+eff.Fraction)
		}
	})
	return fractions.Scale(creditClickValue)
}

// Click evaluates a batch of clicks. Every component scales linearly with clicks.
func (e Engine) Click(state *models.GameState, now time.Time, clicks int) (ClickResult, error) {
	if err := e.ValidateClicks(clicks); err != nil {
		return ClickResult{}, err
	}
	value := e.ClickValue(state, now)
	n := float64(clicks)
	yields := e.ClickResourceYields(state, value).Scale(n)
	credits := value * n
	return ClickResult{
		Clicks:      clicks,
		ValuePerHit: value,
		Credits:     credits,
		Yields:      yields,
		Gained:      yields.Add(models.Resources{Credits: credits}),
	}, nil
}

func (e Engine) eachPurchasedEffect(state *models.GameState, fn func(models.Effect)) {
	for _, us := range state.Upgrades {
		if !us.IsPurchased {
			continue
		}
		def, ok := e.Catalog.Upgrade(us.Key)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			fn(eff)
		}
	}
}
