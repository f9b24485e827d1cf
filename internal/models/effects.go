package models

import (
	"errors"
	"fmt"
)

// EffectKind tags the closed set of bonus effects content can grant
type EffectKind string

const (
	// Production buckets
	BuildingMultiplier EffectKind = "building_multiplier"
	ResourceMultiplier EffectKind = "resource_multiplier"
	GlobalMultiplier   EffectKind = "global_multiplier"

	// Click-only
	ClickMultiplier             EffectKind = "click_multiplier"
	ClickFlatPerBuilding        EffectKind = "click_flat_per_building"
	ClickScalePerBuilding       EffectKind = "click_scale_per_building"
	ClickScalePerTotalBuildings EffectKind = "click_scale_per_total_buildings"
	ClickResourceYield          EffectKind = "click_resource_yield"
)

// AllEffectKinds returns every effect kind in deterministic order
func AllEffectKinds() []EffectKind {
	return []EffectKind{
		BuildingMultiplier, ResourceMultiplier, GlobalMultiplier,
		ClickMultiplier, ClickFlatPerBuilding, ClickScalePerBuilding,
		ClickScalePerTotalBuildings, ClickResourceYield,
	}
}

// AffectsProduction reports whether the kind can change production rates
func (k EffectKind) AffectsProduction() bool {
	switch k {
	case BuildingMultiplier, ResourceMultiplier, GlobalMultiplier:
		return true
	case ClickMultiplier, ClickFlatPerBuilding, ClickScalePerBuilding,
		ClickScalePerTotalBuildings, ClickResourceYield:
		return false
	}
	return false
}

// IsMultiplier reports whether the kind composes multiplicatively.
// Only these kinds may appear on items and achievements.
func (k EffectKind) IsMultiplier() bool {
	switch k {
	case BuildingMultiplier, ResourceMultiplier, GlobalMultiplier, ClickMultiplier:
		return true
	case ClickFlatPerBuilding, ClickScalePerBuilding, ClickScalePerTotalBuildings, ClickResourceYield:
		return false
	}
	return false
}

// Effect is one tagged effect variant. Which payload fields are meaningful depends on Kind:
//
//	building_multiplier             Building, Multiplier
//	resource_multiplier             Resource, Multiplier
//	global_multiplier               Multiplier
//	click_multiplier                Multiplier
//	click_flat_per_building         Building, Amount (credits per owned unit)
//	click_scale_per_building        Building, Amount (bonus per owned unit)
//	click_scale_per_total_buildings Amount (bonus per owned unit of any building)
//	click_resource_yield            Resource, Fraction (of the credit click value)
type Effect struct {
	Kind       EffectKind   `json:"kind" toml:"kind"`
	Building   string       `json:"building,omitempty" toml:"building"`
	Resource   ResourceType `json:"resource,omitempty" toml:"resource"`
	Multiplier float64      `json:"multiplier,omitempty" toml:"multiplier"`
	Amount     float64      `json:"amount,omitempty" toml:"amount"`
	Fraction   float64      `json:"fraction,omitempty" toml:"fraction"`
}

var ErrInvalidEffect = errors.New("invalid effect")

// Validate checks that the payload required by Kind is present
func (e Effect) Validate() error {
	switch e.Kind {
	case BuildingMultiplier:
		if e.Building == "" {
			return fmt.Errorf("%w: %s needs a building", ErrInvalidEffect, e.Kind)
		}
		return validateMultiplier(e)
	case ResourceMultiplier:
		if !e.Resource.Valid() {
			return fmt.Errorf("%w: %s has unknown resource %q", ErrInvalidEffect, e.Kind, e.Resource)
		}
		return validateMultiplier(e)
	case GlobalMultiplier, ClickMultiplier:
		return validateMultiplier(e)
	case ClickFlatPerBuilding, ClickScalePerBuilding:
		if e.Building == "" {
			return fmt.Errorf("%w: %s needs a building", ErrInvalidEffect, e.Kind)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("%w: %s needs a positive amount", ErrInvalidEffect, e.Kind)
		}
		return nil
	case ClickScalePerTotalBuildings:
		if e.Amount <= 0 {
			return fmt.Errorf("%w: %s needs a positive amount", ErrInvalidEffect, e.Kind)
		}
		return nil
	case ClickResourceYield:
		if !e.Resource.Valid() {
			return fmt.Errorf("%w: %s has unknown resource %q", ErrInvalidEffect, e.Kind, e.Resource)
		}
		if e.Fraction <= 0 {
			return fmt.Errorf("%w: %s needs a positive fraction", ErrInvalidEffect, e.Kind)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidEffect, e.Kind)
}

func validateMultiplier(e Effect) error {
	if e.Multiplier <= 0 {
		return fmt.Errorf("%w: %s needs a positive multiplier", ErrInvalidEffect, e.Kind)
	}
	return nil
}

// ActiveEffectType is the kind of a timed modifier started by an event
type ActiveEffectType string

const (
	ProductionBuff         ActiveEffectType = "production_buff"
	ProductionDebuff       ActiveEffectType = "production_debuff"
	GlobalProductionBuff   ActiveEffectType = "global_production_buff"
	GlobalProductionDebuff ActiveEffectType = "global_production_debuff"
	ClickBuff              ActiveEffectType = "click_buff"
	ClickDebuff            ActiveEffectType = "click_debuff"
)

// Valid reports whether t is a known active effect type
func (t ActiveEffectType) Valid() bool {
	switch t {
	case ProductionBuff, ProductionDebuff, GlobalProductionBuff,
		GlobalProductionDebuff, ClickBuff, ClickDebuff:
		return true
	}
	return false
}

// ResourceScoped reports whether the type targets a single resource
func (t ActiveEffectType) ResourceScoped() bool {
	return t == ProductionBuff || t == ProductionDebuff
}
