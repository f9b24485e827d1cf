package models

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// BuildingDef is the static definition of a building
type BuildingDef struct {
	Key                   string    `json:"key" toml:"key"`
	Name                  string    `json:"name" toml:"name"`
	BaseCost              Resources `json:"base_cost" toml:"base_cost"`
	GrowthRate            float64   `json:"growth_rate" toml:"growth_rate"` // 0 = engine default
	Production            Resources `json:"production" toml:"production"`   // per unit per second
	UnlockEra             int       `json:"unlock_era" toml:"unlock_era"`
	UnlockLifetimeCredits float64   `json:"unlock_lifetime_credits" toml:"unlock_lifetime_credits"`
}

// ProducedResources returns the resources a single unit produces, in deterministic order
func (b *BuildingDef) ProducedResources() []ResourceAmount {
	var out []ResourceAmount
	b.Production.EachNonZero(func(rt ResourceType, v float64) {
		out = append(out, ResourceAmount{Resource: rt, Amount: v})
	})
	return out
}

// Requirement gates an upgrade behind an era and optionally a building count
type Requirement struct {
	Era      int    `json:"era" toml:"era"`
	Building string `json:"building" toml:"building"`
	Count    int    `json:"count" toml:"count"`
}

// UpgradeDef is a one-time purchase granting effects
type UpgradeDef struct {
	Key         string      `json:"key" toml:"key"`
	Name        string      `json:"name" toml:"name"`
	Description string      `json:"description" toml:"description"`
	Cost        Resources   `json:"cost" toml:"cost"`
	Effects     []Effect    `json:"effects" toml:"effects"`
	Requires    Requirement `json:"requires" toml:"requires"`
}

// AffectsProduction reports whether any effect can change production rates
func (u *UpgradeDef) AffectsProduction() bool {
	for _, e := range u.Effects {
		if e.Kind.AffectsProduction() {
			return true
		}
	}
	return false
}

// AchievementRequirementKind is what an achievement measures
type AchievementRequirementKind string

const (
	RequireTotalClicks     AchievementRequirementKind = "total_clicks"
	RequireLifetimeCredits AchievementRequirementKind = "lifetime_credits"
	RequireBuildingCount   AchievementRequirementKind = "building_count"
	RequireTotalBuildings  AchievementRequirementKind = "total_buildings"
	RequirePrestigeCount   AchievementRequirementKind = "prestige_count"
)

// AchievementRequirement is the threshold an achievement unlocks at
type AchievementRequirement struct {
	Kind      AchievementRequirementKind `json:"kind" toml:"kind"`
	Building  string                     `json:"building" toml:"building"`
	Threshold float64                    `json:"threshold" toml:"threshold"`
}

// AchievementDef is an unlockable milestone with optional reward effects
type AchievementDef struct {
	Key         string                 `json:"key" toml:"key"`
	Name        string                 `json:"name" toml:"name"`
	Requirement AchievementRequirement `json:"requirement" toml:"requirement"`
	Rewards     []Effect               `json:"rewards" toml:"rewards"`
}

// ItemCategory separates permanent artifacts from single-use consumables
type ItemCategory string

const (
	Artifact   ItemCategory = "artifact"
	Consumable ItemCategory = "consumable"
)

// ItemDef is an inventory item definition
type ItemDef struct {
	Key             string       `json:"key" toml:"key"`
	Name            string       `json:"name" toml:"name"`
	Category        ItemCategory `json:"category" toml:"category"`
	Effects         []Effect     `json:"effects" toml:"effects"`
	DurationSeconds int          `json:"duration_seconds" toml:"duration_seconds"` // consumables only
}

// EventDef is the template an ActiveEffect is created from
type EventDef struct {
	Key             string           `json:"key" toml:"key"`
	Name            string           `json:"name" toml:"name"`
	Type            ActiveEffectType `json:"type" toml:"type"`
	Resource        ResourceType     `json:"resource" toml:"resource"`
	Multiplier      float64          `json:"multiplier" toml:"multiplier"`
	DurationSeconds int              `json:"duration_seconds" toml:"duration_seconds"`
}

// EraDef is a progression stage; Index is its position in the ordered era list
type EraDef struct {
	Index                int    `json:"index" toml:"index"`
	Key                  string `json:"key" toml:"key"`
	Name                 string `json:"name" toml:"name"`
	MinPrestigeCount     int    `json:"min_prestige_count" toml:"min_prestige_count"`
	MinTotalSeldonPoints int64  `json:"min_total_seldon_points" toml:"min_total_seldon_points"`
}

// CatalogKind names a definition family, used in lookup errors
type CatalogKind string

const (
	KindBuilding    CatalogKind = "building"
	KindUpgrade     CatalogKind = "upgrade"
	KindAchievement CatalogKind = "achievement"
	KindItem        CatalogKind = "item"
	KindEvent       CatalogKind = "event"
)

// Catalog holds every content definition. Slices keep file order; maps index by key.
// It is read-only once built.
type Catalog struct {
	Buildings    []*BuildingDef
	Upgrades     []*UpgradeDef
	Achievements []*AchievementDef
	Items        []*ItemDef
	Events       []*EventDef
	Eras         []*EraDef

	buildings    map[string]*BuildingDef
	upgrades     map[string]*UpgradeDef
	achievements map[string]*AchievementDef
	items        map[string]*ItemDef
	events       map[string]*EventDef
}

// NewCatalog indexes the definitions. Eras are sorted by Index.
func NewCatalog(buildings []*BuildingDef, upgrades []*UpgradeDef, achievements []*AchievementDef,
	items []*ItemDef, events []*EventDef, eras []*EraDef) *Catalog {
	c := &Catalog{
		Buildings:    buildings,
		Upgrades:     upgrades,
		Achievements: achievements,
		Items:        items,
		Events:       events,
		Eras:         append([]*EraDef(nil), eras...),
		buildings:    make(map[string]*BuildingDef, len(buildings)),
		upgrades:     make(map[string]*UpgradeDef, len(upgrades)),
		achievements: make(map[string]*AchievementDef, len(achievements)),
		items:        make(map[string]*ItemDef, len(items)),
		events:       make(map[string]*EventDef, len(events)),
	}
	for _, b := range buildings {
		c.buildings[b.Key] = b
	}
	for _, u := range upgrades {
		c.upgrades[u.Key] = u
	}
	for _, a := range achievements {
		c.achievements[a.Key] = a
	}
	for _, i := range items {
		c.items[i.Key] = i
	}
	for _, e := range events {
		c.events[e.Key] = e
	}
	sort.SliceStable(c.Eras, func(i, j int) bool {
		return c.Eras[i].Index < c.Eras[j].Index
	})
	return c
}

// Building returns the definition for a building key
func (c *Catalog) Building(key string) (*BuildingDef, bool) {
	b, ok := c.buildings[key]
	return b, ok
}

// Upgrade returns the definition for an upgrade key
func (c *Catalog) Upgrade(key string) (*UpgradeDef, bool) {
	u, ok := c.upgrades[key]
	return u, ok
}

// Achievement returns the definition for an achievement key
func (c *Catalog) Achievement(key string) (*AchievementDef, bool) {
	a, ok := c.achievements[key]
	return a, ok
}

// Item returns the definition for an item key
func (c *Catalog) Item(key string) (*ItemDef, bool) {
	i, ok := c.items[key]
	return i, ok
}

// Event returns the definition for an event key
func (c *Catalog) Event(key string) (*EventDef, bool) {
	e, ok := c.events[key]
	return e, ok
}

// Keys returns the keys of one definition family in file order
func (c *Catalog) Keys(kind CatalogKind) []string {
	var keys []string
	switch kind {
	case KindBuilding:
		for _, b := range c.Buildings {
			keys = append(keys, b.Key)
		}
	case KindUpgrade:
		for _, u := range c.Upgrades {
			keys = append(keys, u.Key)
		}
	case KindAchievement:
		for _, a := range c.Achievements {
			keys = append(keys, a.Key)
		}
	case KindItem:
		for _, i := range c.Items {
			keys = append(keys, i.Key)
		}
	case KindEvent:
		for _, e := range c.Events {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Suggest returns the closest known key for a mistyped one, or "" if nothing matches
func (c *Catalog) Suggest(kind CatalogKind, key string) string {
	if key == "" {
		return ""
	}
	matches := fuzzy.Find(key, c.Keys(kind))
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// MaxEra returns the highest era index, or 0 with no eras
func (c *Catalog) MaxEra() int {
	if len(c.Eras) == 0 {
		return 0
	}
	return c.Eras[len(c.Eras)-1].Index
}
