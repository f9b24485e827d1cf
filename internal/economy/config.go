package economy

import (
	"errors"
	"fmt"
)

// Config holds the deployment-tunable constants of the economy.
// Every field is documented with its default in DefaultConfig.
type Config struct {
	// DefaultGrowthRate is the per-unit cost growth for buildings that do not set their own
	DefaultGrowthRate float64 `toml:"default_growth_rate"`

	// ClickProductionFraction is the share of raw credit production a click is worth
	ClickProductionFraction float64 `toml:"click_production_fraction"`

	// MinClickValue is the click value floor when production is tiny or zero
	MinClickValue float64 `toml:"min_click_value"`

	// MaxClicksPerRequest bounds the batched click count a caller may submit
	MaxClicksPerRequest int `toml:"max_clicks_per_request"`

	// MaxBulkPurchase bounds the amount of a single building purchase
	MaxBulkPurchase int `toml:"max_bulk_purchase"`

	// MaxOfflineSeconds caps how much absence is credited as offline earnings
	MaxOfflineSeconds float64 `toml:"max_offline_seconds"`

	// OfflineEfficiency is the fraction of production paid out while offline
	OfflineEfficiency float64 `toml:"offline_efficiency"`

	// ActivePlayThresholdSeconds is the gap under which a player still counts as playing
	ActivePlayThresholdSeconds float64 `toml:"active_play_threshold_seconds"`

	// PrestigeCreditDivisor scales lifetime credits into seldon points (sqrt curve)
	PrestigeCreditDivisor float64 `toml:"prestige_credit_divisor"`

	// SeldonPointBonus is the prestige multiplier gained per total seldon point
	SeldonPointBonus float64 `toml:"seldon_point_bonus"`
}

// DefaultConfig returns the shipped tuning
func DefaultConfig() Config {
	return Config{
		DefaultGrowthRate:          1.15,
		ClickProductionFraction:    0.05,
		MinClickValue:              1,
		MaxClicksPerRequest:        100,
		MaxBulkPurchase:            1000,
		MaxOfflineSeconds:          24 * 60 * 60,
		OfflineEfficiency:          0.5,
		ActivePlayThresholdSeconds: 10,
		PrestigeCreditDivisor:      1e6,
		SeldonPointBonus:           0.02,
	}
}

// ErrInvalidConfig is returned by Validate for tuning that breaks the formulas
var ErrInvalidConfig = errors.New("invalid economy config")

// Validate rejects values that would break the cost or time formulas
func (c Config) Validate() error {
	switch {
	case c.DefaultGrowthRate <= 1:
		return fmt.Errorf("%w: default_growth_rate must be > 1, got %v", ErrInvalidConfig, c.DefaultGrowthRate)
	case c.ClickProductionFraction < 0:
		return fmt.Errorf("%w: click_production_fraction must be >= 0", ErrInvalidConfig)
	case c.MinClickValue <= 0:
		return fmt.Errorf("%w: min_click_value must be > 0", ErrInvalidConfig)
	case c.MaxClicksPerRequest < 1:
		return fmt.Errorf("%w: max_clicks_per_request must be >= 1", ErrInvalidConfig)
	case c.MaxBulkPurchase < 1:
		return fmt.Errorf("%w: max_bulk_purchase must be >= 1", ErrInvalidConfig)
	case c.MaxOfflineSeconds <= 0:
		return fmt.Errorf("%w: max_offline_seconds must be > 0", ErrInvalidConfig)
	case c.OfflineEfficiency <= 0 || c.OfflineEfficiency > 1:
		return fmt.Errorf("%w: offline_efficiency must be in (0, 1]", ErrInvalidConfig)
	case c.ActivePlayThresholdSeconds < 0:
		return fmt.Errorf("%w: active_play_threshold_seconds must be >= 0", ErrInvalidConfig)
	case c.PrestigeCreditDivisor <= 0:
		return fmt.Errorf("%w: prestige_credit_divisor must be > 0", ErrInvalidConfig)
	case c.SeldonPointBonus < 0:
		return fmt.Errorf("%w: seldon_point_bonus must be >= 0", ErrInvalidConfig)
	}
	return nil
}
