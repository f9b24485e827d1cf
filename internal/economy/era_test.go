package economy

import (
	"errors"
	"testing"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

func TestNaturalEra(t *testing.T) {
	e := testEngine()

	tests := []struct {
		count  int
		points int64
		want   int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 1},
		{2, 9, 1},
		{2, 10, 2},
		{50, 5, 1},
		{3, 100, 3},
		{99, 1e12, 3},
	}

	for _, tt := range tests {
		p := models.PrestigeState{PrestigeCount: tt.count, TotalSeldonPoints: tt.points}
		if got := e.NaturalEra(p); got != tt.want {
			t.Errorf("NaturalEra(count=%d, points=%d) = %d, want %d", tt.count, tt.points, got, tt.want)
		}
	}
}

// TestCurrentEraAdvancesAtMostOneStep: era 0 with huge totals only reaches era 1
func TestCurrentEraAdvancesAtMostOneStep(t *testing.T) {
	e := testEngine()
	huge := models.PrestigeState{PrestigeCount: 1000, TotalSeldonPoints: 1 << 50}

	if got := e.CurrentEra(0, huge); got != 1 {
		t.Errorf("CurrentEra(0, huge) = %d, want 1", got)
	}

	era := 0
	for step := 1; step <= 5; step++ {
		next := e.CurrentEra(era, huge)
		if next > era+1 {
			t.Fatalf("step %d jumped from %d to %d", step, era, next)
		}
		era = next
	}
	if era != e.Catalog.MaxEra() {
		t.Errorf("repeated prestiges should reach the last era, got %d", era)
	}
}

func TestCurrentEraNeverDecreases(t *testing.T) {
	e := testEngine()
	if got := e.CurrentEra(2, models.PrestigeState{}); got != 2 {
		t.Errorf("CurrentEra(2, zero) = %d, want 2", got)
	}
}

func TestPrestigePreview(t *testing.T) {
	e := testEngine()
	s := testState(e)
	s.LifetimeCredits = 4.5e6
	s.Prestige = models.PrestigeState{SeldonPoints: 1, TotalSeldonPoints: 3, PrestigeCount: 1, PrestigeMultiplier: 1.06}

	gain := e.PrestigePreview(s)

	// floor(sqrt(4.5)) = 2
	if gain.SeldonPoints != 2 || gain.TotalSeldonPoints != 5 {
		t.Errorf("gain = %+v, want 2 points, 5 total", gain)
	}
	if !approx(gain.PrestigeMultiplier, 1.1) {
		t.Errorf("multiplier = %v, want 1.1", gain.PrestigeMultiplier)
	}
	if gain.NextEra != 1 {
		t.Errorf("next era = %d, want 1", gain.NextEra)
	}
}

func TestApplyPrestigeRequiresPoints(t *testing.T) {
	e := testEngine()
	s := testState(e)
	s.LifetimeCredits = 999_999

	if _, err := e.ApplyPrestige(s, t0); !errors.Is(err, ErrNothingToPrestige) {
		t.Errorf("Expected ErrNothingToPrestige, got %v", err)
	}
}

func TestApplyPrestigeResets(t *testing.T) {
	e := testEngine()
	s := testState(e)
	setCount(s, "terminal", 30)
	setCount(s, "archive", 4)
	purchase(s, "terminal_boost")
	s.Resources = models.Resources{Credits: 1e7, Knowledge: 300}
	s.LifetimeCredits = 1e8
	s.TotalClicks = 77
	unlocked := t0.Add(-time.Hour)
	s.Achievement("first_click").UnlockedAt = &unlocked
	s.Inventory = []models.InventoryItem{{Key: "relic", Quantity: 2}}
	s.ActiveEffects = []models.ActiveEffect{{Type: models.GlobalProductionBuff, Multiplier: 2, ExpiresAt: t0.Add(time.Hour)}}
	s.ActiveConsumable = &models.ActiveConsumable{Key: "stim", ExpiresAt: t0.Add(time.Hour)}
	now := t0.Add(time.Minute)

	next, err := e.ApplyPrestige(s, now)
	if err != nil {
		t.Fatalf("ApplyPrestige failed: %v", err)
	}

	if next.TotalBuildings() != 0 || next.UpgradePurchased("terminal_boost") {
		t.Error("buildings and upgrades should be reset")
	}
	if !next.Resources.IsZero() || next.LifetimeCredits != 0 {
		t.Errorf("resources should be reset, got %+v lifetime %v", next.Resources, next.LifetimeCredits)
	}
	if len(next.ActiveEffects) != 0 || next.ActiveConsumable != nil {
		t.Error("timed effects and consumable should be cleared")
	}
	if len(next.Inventory) != 1 || !next.Achievement("first_click").Unlocked() || next.TotalClicks != 77 {
		t.Error("inventory, achievements and counters should survive")
	}
	// sqrt(100) = 10 points
	if next.Prestige.SeldonPoints != 10 || next.Prestige.PrestigeCount != 1 {
		t.Errorf("prestige = %+v, want 10 points after 1 prestige", next.Prestige)
	}
	if !approx(next.Prestige.PrestigeMultiplier, 1.2) {
		t.Errorf("multiplier = %v, want 1.2", next.Prestige.PrestigeMultiplier)
	}
	// era 2 also needs a second prestige
	if next.CurrentEra != 1 {
		t.Errorf("era = %d, want 1", next.CurrentEra)
	}
	if !next.Building("reactor").IsUnlocked {
		t.Error("reactor should unlock in era 1")
	}
	if !next.LastTickAt.Equal(now) {
		t.Errorf("lastTickAt = %v, want %v", next.LastTickAt, now)
	}
	// floor click × prestige 1.2
	if !approx(next.ClickValue, 1.2) {
		t.Errorf("click value = %v, want 1.2", next.ClickValue)
	}

	if s.TotalBuildings() != 34 || s.Prestige.PrestigeCount != 0 {
		t.Error("ApplyPrestige mutated its input")
	}
}

func TestRefreshUnlocks(t *testing.T) {
	e := testEngine()
	s := models.NewGameState(e.Catalog, t0)
	e.RefreshUnlocks(s)

	if !s.Building("terminal").IsUnlocked || s.Building("reactor").IsUnlocked {
		t.Errorf("era 0 unlocks wrong: %+v", s.Buildings)
	}

	s.CurrentEra = 1
	e.RefreshUnlocks(s)
	if !s.Building("reactor").IsUnlocked {
		t.Error("reactor should unlock in era 1")
	}
}

func TestUnlockAchievements(t *testing.T) {
	e := testEngine()
	s := testState(e)

	if got := e.UnlockAchievements(s, t0); len(got) != 0 {
		t.Errorf("nothing should unlock yet, got %v", got)
	}

	s.TotalClicks = 1
	setCount(s, "terminal", 10)
	got := e.UnlockAchievements(s, t0)
	if len(got) != 2 || got[0] != "first_click" || got[1] != "ten_terminals" {
		t.Fatalf("unlocked = %v, want [first_click ten_terminals]", got)
	}
	if at := s.Achievement("first_click").UnlockedAt; at == nil || !at.Equal(t0) {
		t.Errorf("unlockedAt = %v, want %v", at, t0)
	}

	// one-way: a second pass unlocks nothing and keeps the original time
	if again := e.UnlockAchievements(s, t0.Add(time.Hour)); len(again) != 0 {
		t.Errorf("second pass unlocked %v", again)
	}
	if at := s.Achievement("first_click").UnlockedAt; !at.Equal(t0) {
		t.Errorf("unlockedAt moved to %v", at)
	}
}
