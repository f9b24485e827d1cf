// Package planner simulates a greedy purchase sequence: wait for the chosen purchase to
// become affordable, buy it, repeat. It is an offline what-if tool on top of the economy
// engine and never touches persisted state.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/models"
)

// Strategy decides which candidate the planner buys next
type Strategy string

const (
	// BestEfficiency buys the highest credit rate gained per credit spent
	BestEfficiency Strategy = "efficiency"
	// Cheapest buys whatever becomes affordable first
	Cheapest Strategy = "cheapest"
)

// AllStrategies returns every strategy in deterministic order
func AllStrategies() []Strategy {
	return []Strategy{BestEfficiency, Cheapest}
}

// ActionKind is what an action buys
type ActionKind string

const (
	BuyBuilding ActionKind = "building"
	BuyUpgrade  ActionKind = "upgrade"
)

// Action is one simulated purchase
type Action struct {
	Kind             ActionKind       `json:"kind"`
	Key              string           `json:"key"`
	StartSeconds     float64          `json:"start_seconds"` // offset from plan start
	WaitSeconds      float64          `json:"wait_seconds"`
	Cost             models.Resources `json:"cost"`
	CreditRateBefore float64          `json:"credit_rate_before"`
	CreditRateAfter  float64          `json:"credit_rate_after"`
}

// Plan is the result of one simulation run
type Plan struct {
	Strategy        Strategy          `json:"strategy"`
	Actions         []Action          `json:"actions"`
	TotalSeconds    float64           `json:"total_seconds"`
	FinalCreditRate float64           `json:"final_credit_rate"`
	FinalState      *models.GameState `json:"-"`
}

// Limits bound a run. A zero Horizon means no time limit.
type Limits struct {
	MaxSteps int
	Horizon  time.Duration
}

// Planner runs one strategy
type Planner struct {
	Engine   economy.Engine
	Strategy Strategy
	Limits   Limits
}

func New(engine economy.Engine, strategy Strategy, limits Limits) *Planner {
	return &Planner{Engine: engine, Strategy: strategy, Limits: limits}
}

// candidate is a purchase option at one step
type candidate struct {
	kind       ActionKind
	key        string
	cost       models.Resources
	efficiency float64
	wait       float64
}

// Plan simulates purchases starting from initial at start. initial is not modified.
func (p *Planner) Plan(initial *models.GameState, start time.Time) *Plan {
	e := p.Engine
	state := initial.Clone()
	now := start
	plan := &Plan{Strategy: p.Strategy}

	// a purchase can fail to land when a timed effect expires during the wait
	maxIterations := 4*p.Limits.MaxSteps + 16
	for i := 0; i < maxIterations && len(plan.Actions) < p.Limits.MaxSteps; i++ {
		next := p.selectNext(state, now)
		if next == nil {
			break
		}

		if !p.withinHorizon(now.Sub(start).Seconds() + next.wait) {
			break
		}
		buyAt := now.Add(time.Duration(math.Ceil(next.wait * float64(time.Second))))
		if buyAt.After(now) {
			e.ProjectResources(state, buyAt).Apply(state)
		}
		if !spend(state, next.cost) {
			now = buyAt
			continue
		}

		before := e.CreditRate(state, buyAt)
		switch next.kind {
		case BuyBuilding:
			state.Building(next.key).Count++
		case BuyUpgrade:
			state.Upgrade(next.key).IsPurchased = true
		}
		e.RefreshUnlocks(state)
		e.UnlockAchievements(state, buyAt)

		plan.Actions = append(plan.Actions, Action{
			Kind:             next.kind,
			Key:              next.key,
			StartSeconds:     buyAt.Sub(start).Seconds(),
			WaitSeconds:      buyAt.Sub(now).Seconds(),
			Cost:             next.cost,
			CreditRateBefore: before,
			CreditRateAfter:  e.CreditRate(state, buyAt),
		})
		now = buyAt
	}

	plan.TotalSeconds = now.Sub(start).Seconds()
	plan.FinalCreditRate = e.CreditRate(state, now)
	plan.FinalState = state
	return plan
}

// MaxPlanSeconds bounds every plan, horizon or not. It is far below the ~292 years a
// time.Duration can hold.
const MaxPlanSeconds = 100 * 365 * 24 * 60 * 60

// withinHorizon reports whether a purchase at offset seconds from the plan start is
// still plannable
func (p *Planner) withinHorizon(offset float64) bool {
	if math.IsNaN(offset) || offset > MaxPlanSeconds {
		return false
	}
	return p.Limits.Horizon <= 0 || offset <= p.Limits.Horizon.Seconds()
}

func (p *Planner) selectNext(state *models.GameState, now time.Time) *candidate {
	var best *candidate
	for _, c := range p.candidates(state, now) {
		if c.wait < 0 {
			continue
		}
		if best == nil || p.better(c, *best) {
			picked := c
			best = &picked
		}
	}
	return best
}

// better reports whether a beats b under the strategy. Ties keep the earlier candidate.
func (p *Planner) better(a, b candidate) bool {
	switch p.Strategy {
	case Cheapest:
		if a.wait != b.wait {
			return a.wait < b.wait
		}
		return a.efficiency > b.efficiency
	case BestEfficiency:
		return a.efficiency > b.efficiency
	}
	return false
}

func (p *Planner) candidates(state *models.GameState, now time.Time) []candidate {
	e := p.Engine
	rates := e.ProductionRates(state, now)

	var out []candidate
	for _, eff := range e.BuildingCreditEfficiencies(state, now) {
		def, err := e.LookupBuilding(eff.Key)
		if err != nil {
			continue
		}
		cost := e.BuildingCost(def, state.BuildingCount(eff.Key))
		out = append(out, candidate{
			kind:       BuyBuilding,
			key:        eff.Key,
			cost:       cost,
			efficiency: eff.Efficiency,
			wait:       waitFor(state.Resources, rates, cost),
		})
	}
	for _, eff := range e.UpgradeCreditEfficiencies(state, now) {
		def, err := e.LookupUpgrade(eff.Key)
		if err != nil {
			continue
		}
		out = append(out, candidate{
			kind:       BuyUpgrade,
			key:        eff.Key,
			cost:       def.Cost,
			efficiency: eff.Efficiency,
			wait:       waitFor(state.Resources, rates, def.Cost),
		})
	}
	return out
}

// waitFor returns the seconds until have covers cost at the given rates, or -1 if a
// missing resource is not produced at all
func waitFor(have, rates, cost models.Resources) float64 {
	wait := 0.0
	cost.EachNonZero(func(rt models.ResourceType, need float64) {
		if wait < 0 {
			return
		}
		shortfall := need - have.Get(rt)
		if shortfall <= 0 {
			return
		}
		rate := rates.Get(rt)
		if rate <= 0 {
			wait = -1
			return
		}
		wait = math.Max(wait, shortfall/rate)
	})
	return wait
}

// spend deducts cost, absorbing floating point shortfalls from the projection.
// It reports false and leaves state untouched when cost is really not covered.
func spend(state *models.GameState, cost models.Resources) bool {
	const slack = 1e-9
	left := state.Resources.Sub(cost)
	ok := true
	left.Each(func(rt models.ResourceType, v float64) {
		if v < -slack*math.Max(1, cost.Get(rt)) {
			ok = false
		}
	})
	if !ok {
		return false
	}
	left.Each(func(rt models.ResourceType, v float64) {
		if v < 0 {
			left.Set(rt, 0)
		}
	})
	state.Resources = left
	return true
}

// PlanAll runs every strategy and returns the plan ending with the highest credit rate.
// Ties go to the shorter plan, then to the earlier strategy.
func PlanAll(engine economy.Engine, initial *models.GameState, start time.Time, limits Limits) (*Plan, []*Plan) {
	var best *Plan
	var all []*Plan
	for _, s := range AllStrategies() {
		plan := New(engine, s, limits).Plan(initial, start)
		all = append(all, plan)
		if best == nil ||
			plan.FinalCreditRate > best.FinalCreditRate ||
			(plan.FinalCreditRate == best.FinalCreditRate && plan.TotalSeconds < best.TotalSeconds) {
			best = plan
		}
	}
	return best, all
}

// ParseStrategy resolves a strategy name
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range AllStrategies() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want one of %v)", name, AllStrategies())
}
