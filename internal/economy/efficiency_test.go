package economy

import (
	"reflect"
	"testing"

	"github.com/napolitain/seldon-idle/internal/models"
)

func TestBuildingCreditEfficiencies(t *testing.T) {
	e := testEngine()
	s := testState(e)

	ranked := e.BuildingCreditEfficiencies(s, t0)

	// reactor is locked in era 0
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 ranked buildings, got %+v", ranked)
	}
	// terminal: 1 credit/s for 10 credits; archive: 5 credits/s for 100 credits
	if ranked[0].Key != "terminal" || !approx(ranked[0].Efficiency, 0.1) {
		t.Errorf("ranked[0] = %+v, want terminal at 0.1", ranked[0])
	}
	if ranked[1].Key != "archive" || !approx(ranked[1].Efficiency, 0.05) {
		t.Errorf("ranked[1] = %+v, want archive at 0.05", ranked[1])
	}
}

func TestBuildingCreditEfficienciesUsesNextUnitCost(t *testing.T) {
	e := testEngine()
	s := testState(e)
	setCount(s, "terminal", 20)
	purchase(s, "terminal_boost")

	for _, eff := range e.BuildingCreditEfficiencies(s, t0) {
		if eff.Key != "terminal" {
			continue
		}
		wantCost := UnitCost(10, 1.15, 20)
		if !approx(eff.CreditCost, wantCost) {
			t.Errorf("credit cost = %v, want next unit %v", eff.CreditCost, wantCost)
		}
		if eff.MarginalCreditsPerSec != 2 {
			t.Errorf("marginal = %v, want 2 with the terminal boost", eff.MarginalCreditsPerSec)
		}
		return
	}
	t.Fatal("terminal missing from ranking")
}

func TestBuildingCreditEfficienciesStableTies(t *testing.T) {
	buildings := []*models.BuildingDef{
		{Key: "b", BaseCost: models.Resources{Credits: 10}, Production: models.Resources{Credits: 1}},
		{Key: "a", BaseCost: models.Resources{Credits: 20}, Production: models.Resources{Credits: 2}},
		{Key: "c", BaseCost: models.Resources{Credits: 30}, Production: models.Resources{Credits: 3}},
		{Key: "k", BaseCost: models.Resources{Knowledge: 5}, Production: models.Resources{Credits: 3}},
		{Key: "p", BaseCost: models.Resources{Credits: 5}, Production: models.Resources{Knowledge: 3}},
	}
	e := New(models.NewCatalog(buildings, nil, nil, nil, nil, nil), DefaultConfig())
	s := testState(e)

	var keys []string
	for _, eff := range e.BuildingCreditEfficiencies(s, t0) {
		keys = append(keys, eff.Key)
	}
	// equal efficiencies keep catalog order; k and p fail the credit filters
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("ranking = %v, want %v", keys, want)
	}
}

func TestUpgradeCreditEfficiencies(t *testing.T) {
	e := testEngine()
	s := testState(e)
	setCount(s, "terminal", 10)

	ranked := e.UpgradeCreditEfficiencies(s, t0)
	// global_plan needs an archive; knowledge_focus adds no credits; click upgrades never rank
	if len(ranked) != 1 || ranked[0].Key != "terminal_boost" {
		t.Fatalf("ranking = %+v, want only terminal_boost", ranked)
	}
	if !approx(ranked[0].MarginalCreditsPerSec, 10) || !approx(ranked[0].Efficiency, 0.2) {
		t.Errorf("terminal_boost = %+v, want +10/s at 0.2", ranked[0])
	}

	setCount(s, "archive", 1)
	ranked = e.UpgradeCreditEfficiencies(s, t0)
	if len(ranked) != 2 {
		t.Fatalf("ranking = %+v, want terminal_boost and global_plan", ranked)
	}
	// base 15/s; global_plan adds 7.5/s for 500
	if ranked[1].Key != "global_plan" || !approx(ranked[1].MarginalCreditsPerSec, 7.5) {
		t.Errorf("ranked[1] = %+v, want global_plan +7.5/s", ranked[1])
	}
}

func TestUpgradeCreditEfficienciesSkipsPurchased(t *testing.T) {
	e := testEngine()
	s := testState(e)
	setCount(s, "terminal", 10)
	purchase(s, "terminal_boost")

	if ranked := e.UpgradeCreditEfficiencies(s, t0); len(ranked) != 0 {
		t.Errorf("Expected no candidates, got %+v", ranked)
	}
}

// TestEfficiencyRankingIsPure verifies repeated calls agree and never mutate the input
func TestEfficiencyRankingIsPure(t *testing.T) {
	e := testEngine()
	s := testState(e)
	setCount(s, "terminal", 12)
	setCount(s, "archive", 3)
	before := s.Clone()

	first := e.UpgradeCreditEfficiencies(s, t0)
	second := e.UpgradeCreditEfficiencies(s, t0)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Rankings differ between calls:\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(e.BuildingCreditEfficiencies(s, t0), e.BuildingCreditEfficiencies(s, t0)) {
		t.Error("Building rankings differ between calls")
	}
	if !reflect.DeepEqual(before, s) {
		t.Error("Ranking mutated the input state")
	}
}

func TestUpgradeAvailable(t *testing.T) {
	e := testEngine()
	s := testState(e)
	plan, _ := e.Catalog.Upgrade("global_plan")

	if e.UpgradeAvailable(s, plan) {
		t.Error("global_plan should need an archive")
	}
	setCount(s, "archive", 1)
	if !e.UpgradeAvailable(s, plan) {
		t.Error("global_plan should be available with one archive")
	}

	gated := &models.UpgradeDef{Key: "later", Requires: models.Requirement{Era: 2}}
	if e.UpgradeAvailable(s, gated) {
		t.Error("era 2 upgrade should be unavailable in era 0")
	}
}
