package economy

import (
	"math"
	"time"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Projection is the read-side view of a state advanced to now
type Projection struct {
	Resources       models.Resources `json:"resources"`
	LastTickAt      time.Time        `json:"last_tick_at"`
	LifetimeCredits float64          `json:"lifetime_credits"`
	ElapsedSeconds  float64          `json:"elapsed_seconds"`
	Rates           models.Resources `json:"rates"`
}

// Apply writes the projection into a state
func (p Projection) Apply(state *models.GameState) {
	state.Resources = p.Resources
	state.LastTickAt = p.LastTickAt
	state.LifetimeCredits = p.LifetimeCredits
}

// ProjectResources advances resources by rate × elapsed. Time never moves backward:
// when now is not after LastTickAt the state's values are returned unchanged.
// Rates are evaluated at now, so an effect that expired in between is not credited.
func (e Engine) ProjectResources(state *models.GameState, now time.Time) Projection {
	rates := e.ProductionRates(state, now)
	p := Projection{
		Resources:       state.Resources,
		LastTickAt:      state.LastTickAt,
		LifetimeCredits: state.LifetimeCredits,
		Rates:           rates,
	}

	elapsed := now.Sub(state.LastTickAt).Seconds()
	if elapsed <= 0 {
		return p
	}

	p.ElapsedSeconds = elapsed
	p.Resources = state.Resources.Add(rates.Scale(elapsed))
	p.LastTickAt = now
	p.LifetimeCredits = state.LifetimeCredits + rates.Credits*elapsed
	return p
}

// OfflineResult is what an absent player is paid on return
type OfflineResult struct {
	Earnings      models.Resources `json:"earnings"`
	CappedSeconds float64          `json:"capped_seconds"`
}

// IsOffline reports whether a gap is long enough to count as an absence
func (e Engine) IsOffline(elapsedSeconds float64) bool {
	return elapsedSeconds > e.Config.ActivePlayThresholdSeconds
}

// OfflineEarnings pays rate × min(elapsed, MaxOfflineSeconds) × OfflineEfficiency per
// resource. It is intentionally less generous than ProjectResources for the same span.
func (e Engine) OfflineEarnings(state *models.GameState, elapsedSeconds float64, now time.Time) OfflineResult {
	capped := math.Max(0, math.Min(elapsedSeconds, e.Config.MaxOfflineSeconds))
	rates := e.ProductionRates(state, now)
	return OfflineResult{
		Earnings:      rates.Scale(capped * e.Config.OfflineEfficiency),
		CappedSeconds: capped,
	}
}

// SavePayload is what a client submits on save
type SavePayload struct {
	Resources       models.Resources `json:"resources"`
	LastTickAt      time.Time        `json:"last_tick_at"`
	LifetimeCredits float64          `json:"lifetime_credits"`
	TotalPlayTime   float64          `json:"total_play_time"`
	TotalClicks     int64            `json:"total_clicks"`
}

// SaveOutcome is the reconciled state to persist
type SaveOutcome struct {
	State *models.GameState
	Stale bool
}

// ReconcileSave merges a client save into the persisted state.
//
// A save whose LastTickAt is older than the persisted one is stale: a newer tick already
// moved resources past what the client knows, so its resource payload is ignored and
// only the monotonic counters (play time, clicks) are merged forward. Saves at or after
// the persisted tick are accepted in full.
func ReconcileSave(persisted *models.GameState, incoming SavePayload) SaveOutcome {
	next := persisted.Clone()

	if incoming.LastTickAt.Before(persisted.LastTickAt) {
		next.TotalPlayTime = math.Max(persisted.TotalPlayTime, incoming.TotalPlayTime)
		next.TotalClicks = max(persisted.TotalClicks, incoming.TotalClicks)
		return SaveOutcome{State: next, Stale: true}
	}

	next.Resources = incoming.Resources
	next.LastTickAt = incoming.LastTickAt
	next.LifetimeCredits = incoming.LifetimeCredits
	next.TotalPlayTime = incoming.TotalPlayTime
	next.TotalClicks = incoming.TotalClicks
	return SaveOutcome{State: next}
}
