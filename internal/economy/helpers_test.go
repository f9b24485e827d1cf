package economy

import (
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

const tolerance = 1e-9

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// testCatalog is a small content set covering every effect kind
func testCatalog() *models.Catalog {
	buildings := []*models.BuildingDef{
		{
			Key:        "terminal",
			Name:       "Terminal",
			BaseCost:   models.Resources{Credits: 10},
			GrowthRate: 1.15,
			Production: models.Resources{Credits: 1},
		},
		{
			Key:        "archive",
			Name:       "Archive",
			BaseCost:   models.Resources{Credits: 100, Knowledge: 10},
			Production: models.Resources{Credits: 5, Knowledge: 1},
		},
		{
			Key:        "reactor",
			Name:       "Reactor",
			BaseCost:   models.Resources{Credits: 1000},
			Production: models.Resources{Credits: 20, NuclearTech: 1},
			UnlockEra:  1,
		},
	}
	upgrades := []*models.UpgradeDef{
		{
			Key:     "terminal_boost",
			Cost:    models.Resources{Credits: 50},
			Effects: []models.Effect{{Kind: models.BuildingMultiplier, Building: "terminal", Multiplier: 2}},
		},
		{
			Key:     "knowledge_focus",
			Cost:    models.Resources{Credits: 200},
			Effects: []models.Effect{{Kind: models.ResourceMultiplier, Resource: models.Knowledge, Multiplier: 3}},
		},
		{
			Key:      "global_plan",
			Cost:     models.Resources{Credits: 500},
			Effects:  []models.Effect{{Kind: models.GlobalMultiplier, Multiplier: 1.5}},
			Requires: models.Requirement{Building: "archive", Count: 1},
		},
		{
			Key:     "click_flat",
			Cost:    models.Resources{Credits: 20},
			Effects: []models.Effect{{Kind: models.ClickFlatPerBuilding, Building: "terminal", Amount: 1}},
		},
		{
			Key:     "click_scale",
			Cost:    models.Resources{Credits: 40},
			Effects: []models.Effect{{Kind: models.ClickScalePerBuilding, Building: "terminal", Amount: 0.1}},
		},
		{
			Key:     "click_total",
			Cost:    models.Resources{Credits: 80},
			Effects: []models.Effect{{Kind: models.ClickScalePerTotalBuildings, Amount: 0.01}},
		},
		{
			Key:     "click_yield_a",
			Cost:    models.Resources{Credits: 60},
			Effects: []models.Effect{{Kind: models.ClickResourceYield, Resource: models.Knowledge, Fraction: 0.1}},
		},
		{
			Key:     "click_yield_b",
			Cost:    models.Resources{Credits: 60},
			Effects: []models.Effect{{Kind: models.ClickResourceYield, Resource: models.Knowledge, Fraction: 0.05}},
		},
		{
			Key:     "click_double",
			Cost:    models.Resources{Credits: 30},
			Effects: []models.Effect{{Kind: models.ClickMultiplier, Multiplier: 2}},
		},
	}
	achievements := []*models.AchievementDef{
		{
			Key:         "first_click",
			Requirement: models.AchievementRequirement{Kind: models.RequireTotalClicks, Threshold: 1},
			Rewards:     []models.Effect{{Kind: models.GlobalMultiplier, Multiplier: 1.1}},
		},
		{
			Key:         "ten_terminals",
			Requirement: models.AchievementRequirement{Kind: models.RequireBuildingCount, Building: "terminal", Threshold: 10},
		},
	}
	items := []*models.ItemDef{
		{
			Key:      "relic",
			Category: models.Artifact,
			Effects:  []models.Effect{{Kind: models.GlobalMultiplier, Multiplier: 1.1}},
		},
		{
			Key:      "lens",
			Category: models.Artifact,
			Effects:  []models.Effect{{Kind: models.ClickMultiplier, Multiplier: 2}},
		},
		{
			Key:             "stim",
			Category:        models.Consumable,
			Effects:         []models.Effect{{Kind: models.GlobalMultiplier, Multiplier: 2}},
			DurationSeconds: 60,
		},
	}
	events := []*models.EventDef{
		{Key: "boom", Type: models.ProductionBuff, Resource: models.Credits, Multiplier: 2, DurationSeconds: 30},
		{Key: "slump", Type: models.GlobalProductionDebuff, Multiplier: 0.5, DurationSeconds: 30},
	}
	eras := []*models.EraDef{
		{Index: 3, Key: "empire", MinPrestigeCount: 3, MinTotalSeldonPoints: 100},
		{Index: 0, Key: "foundation"},
		{Index: 1, Key: "traders", MinPrestigeCount: 1, MinTotalSeldonPoints: 1},
		{Index: 2, Key: "princes", MinPrestigeCount: 2, MinTotalSeldonPoints: 10},
	}
	return models.NewCatalog(buildings, upgrades, achievements, items, events, eras)
}

func testEngine() Engine {
	return New(testCatalog(), DefaultConfig())
}

// testState returns a fresh state with every era-0 building unlocked
func testState(e Engine) *models.GameState {
	s := models.NewGameState(e.Catalog, t0)
	e.RefreshUnlocks(s)
	return s
}

func setCount(s *models.GameState, key string, n int) {
	s.Building(key).Count = n
}

func purchase(s *models.GameState, keys ...string) {
	for _, k := range keys {
		s.Upgrade(k).IsPurchased = true
	}
}
