package loader

import (
	"errors"
	"fmt"

	"github.com/napolitain/seldon-idle/internal/models"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// validator accumulates every problem so a broken data directory is reported in one pass
type validator struct {
	catalog *models.Catalog
	errs    []error
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCatalog}, args...)...))
}

// Validate checks cross references and value ranges of a catalog
func Validate(c *models.Catalog) error {
	v := &validator{catalog: c}
	v.eras()
	v.buildings()
	v.upgrades()
	v.achievements()
	v.items()
	v.events()
	return errors.Join(v.errs...)
}

func (v *validator) unique(kind string, keys []string) {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			v.addf("%s with empty key", kind)
			continue
		}
		if seen[k] {
			v.addf("duplicate %s %q", kind, k)
		}
		seen[k] = true
	}
}

func (v *validator) eras() {
	eras := v.catalog.Eras
	if len(eras) == 0 {
		v.addf("no eras defined")
		return
	}
	keys := make([]string, 0, len(eras))
	for i, era := range eras {
		keys = append(keys, era.Key)
		if era.Index != i {
			v.addf("era indices must run 0..%d without gaps, got %d at position %d", len(eras)-1, era.Index, i)
		}
		if i == 0 {
			if era.MinPrestigeCount != 0 || era.MinTotalSeldonPoints != 0 {
				v.addf("era %q is the starting era and cannot have thresholds", era.Key)
			}
			continue
		}
		prev := eras[i-1]
		if era.MinPrestigeCount < prev.MinPrestigeCount || era.MinTotalSeldonPoints < prev.MinTotalSeldonPoints {
			v.addf("era %q thresholds are below era %q", era.Key, prev.Key)
		}
	}
	v.unique("era", keys)
}

func (v *validator) buildings() {
	v.unique("building", v.catalog.Keys(models.KindBuilding))
	maxEra := v.catalog.MaxEra()

	for _, b := range v.catalog.Buildings {
		if b.GrowthRate != 0 && b.GrowthRate <= 1 {
			v.addf("building %q growth_rate must be > 1 (or 0 for the default), got %v", b.Key, b.GrowthRate)
		}
		if hasNegative(b.BaseCost) || b.BaseCost.IsZero() {
			v.addf("building %q needs a positive base_cost", b.Key)
		}
		if hasNegative(b.Production) {
			v.addf("building %q has negative production", b.Key)
		}
		if b.UnlockEra < 0 || b.UnlockEra > maxEra {
			v.addf("building %q unlock_era %d out of range", b.Key, b.UnlockEra)
		}
	}
}

func (v *validator) upgrades() {
	v.unique("upgrade", v.catalog.Keys(models.KindUpgrade))

	for _, u := range v.catalog.Upgrades {
		owner := fmt.Sprintf("upgrade %q", u.Key)
		if hasNegative(u.Cost) {
			v.addf("%s has negative cost", owner)
		}
		if len(u.Effects) == 0 {
			v.addf("%s has no effects", owner)
		}
		v.effects(owner, u.Effects, false)

		r := u.Requires
		if r.Era < 0 || r.Era > v.catalog.MaxEra() {
			v.addf("%s requires era %d out of range", owner, r.Era)
		}
		if r.Building != "" {
			v.buildingRef(owner, r.Building)
		}
		if r.Count < 0 {
			v.addf("%s requires a negative building count", owner)
		}
	}
}

func (v *validator) achievements() {
	v.unique("achievement", v.catalog.Keys(models.KindAchievement))

	for _, a := range v.catalog.Achievements {
		owner := fmt.Sprintf("achievement %q", a.Key)
		r := a.Requirement
		switch r.Kind {
		case models.RequireBuildingCount:
			v.buildingRef(owner, r.Building)
		case models.RequireTotalClicks, models.RequireLifetimeCredits,
			models.RequireTotalBuildings, models.RequirePrestigeCount:
		default:
			v.addf("%s has unknown requirement kind %q", owner, r.Kind)
		}
		if r.Threshold <= 0 {
			v.addf("%s needs a positive threshold", owner)
		}
		v.effects(owner, a.Rewards, true)
	}
}

func (v *validator) items() {
	v.unique("item", v.catalog.Keys(models.KindItem))

	for _, it := range v.catalog.Items {
		owner := fmt.Sprintf("item %q", it.Key)
		switch it.Category {
		case models.Artifact:
		case models.Consumable:
			if it.DurationSeconds <= 0 {
				v.addf("%s is a consumable without a duration", owner)
			}
		default:
			v.addf("%s has unknown category %q", owner, it.Category)
		}
		if len(it.Effects) == 0 {
			v.addf("%s has no effects", owner)
		}
		v.effects(owner, it.Effects, true)
	}
}

func (v *validator) events() {
	v.unique("event", v.catalog.Keys(models.KindEvent))

	for _, ev := range v.catalog.Events {
		owner := fmt.Sprintf("event %q", ev.Key)
		if !ev.Type.Valid() {
			v.addf("%s has unknown type %q", owner, ev.Type)
		}
		if ev.Type.ResourceScoped() && !ev.Resource.Valid() {
			v.addf("%s needs a resource", owner)
		}
		if ev.Multiplier <= 0 {
			v.addf("%s needs a positive multiplier", owner)
		}
		if ev.DurationSeconds <= 0 {
			v.addf("%s needs a positive duration", owner)
		}
	}
}

// effects checks each effect payload. multipliersOnly applies to items and achievements,
// which are folded in by the multiplier aggregator only.
func (v *validator) effects(owner string, effects []models.Effect, multipliersOnly bool) {
	for i, eff := range effects {
		if err := eff.Validate(); err != nil {
			v.errs = append(v.errs, fmt.Errorf("%w: %s effect %d: %w", ErrInvalidCatalog, owner, i, err))
			continue
		}
		if multipliersOnly && !eff.Kind.IsMultiplier() {
			v.addf("%s effect %d: %s is not allowed here", owner, i, eff.Kind)
		}
		if eff.Kind == models.ClickResourceYield && eff.Resource == models.Credits {
			v.addf("%s effect %d: click yield cannot target credits", owner, i)
		}
		if eff.Building != "" {
			v.buildingRef(owner, eff.Building)
		}
	}
}

func (v *validator) buildingRef(owner, key string) {
	if _, ok := v.catalog.Building(key); ok {
		return
	}
	if s := v.catalog.Suggest(models.KindBuilding, key); s != "" {
		v.addf("%s references unknown building %q (did you mean %q?)", owner, key, s)
		return
	}
	v.addf("%s references unknown building %q", owner, key)
}

func hasNegative(r models.Resources) bool {
	neg := false
	r.Each(func(_ models.ResourceType, amount float64) {
		if amount < 0 {
			neg = true
		}
	})
	return neg
}
