// Package sizing computes deterministic position sizes from account equity
// and a per-trade risk budget, for strategies that size orders dynamically
// instead of trading a fixed quantity.
package sizing

import (
	"fmt"
	"math"
)

// RiskParameters bounds how a PositionSizer converts risk into quantity.
type RiskParameters struct {
	MaxRiskPerTrade     float64 // fraction of equity risked per trade, e.g. 0.01
	MinQuantity         float64
	MaxQuantity         float64 // 0 means unbounded
	MaxPositionValuePct float64 // fraction of equity a single position may occupy, e.g. 0.2
}

// DefaultRiskParameters mirrors the conservative defaults a reference
// strategy uses when the caller does not override them.
func DefaultRiskParameters() RiskParameters {
	return RiskParameters{
		MaxRiskPerTrade:     0.01,
		MinQuantity:         0,
		MaxPositionValuePct: 0.2,
	}
}

// PositionSizer derives a trade quantity from account equity, an entry
// price, and a stop price defining the risked distance per unit.
type PositionSizer struct {
	params RiskParameters
}

// NewPositionSizer validates params and constructs a PositionSizer.
func NewPositionSizer(params RiskParameters) (PositionSizer, error) {
	if params.MaxRiskPerTrade <= 0 {
		return PositionSizer{}, fmt.Errorf("sizing.NewPositionSizer: max_risk_per_trade %.4f must be > 0", params.MaxRiskPerTrade)
	}
	if params.MinQuantity < 0 {
		return PositionSizer{}, fmt.Errorf("sizing.NewPositionSizer: min_quantity %.4f must be >= 0", params.MinQuantity)
	}
	if params.MaxQuantity < 0 {
		return PositionSizer{}, fmt.Errorf("sizing.NewPositionSizer: max_quantity %.4f must be >= 0", params.MaxQuantity)
	}
	if params.MaxPositionValuePct <= 0 {
		return PositionSizer{}, fmt.Errorf("sizing.NewPositionSizer: max_position_value_pct %.4f must be > 0", params.MaxPositionValuePct)
	}
	return PositionSizer{params: params}, nil
}

// Size returns the quantity to trade given current equity, an intended
// entry price, and a stop price marking the risked distance per unit. It
// caps the notional at MaxPositionValuePct of equity, then clamps to
// [MinQuantity, MaxQuantity] (when MaxQuantity > 0); a MinQuantity above
// the capped quantity lifts the notional past that cap.
func (s PositionSizer) Size(equity, entryPrice, stopPrice float64) (float64, error) {
	if equity <= 0 {
		return 0, fmt.Errorf("sizing.Size: equity %.8f must be > 0", equity)
	}
	if entryPrice <= 0 {
		return 0, fmt.Errorf("sizing.Size: entry price %.8f must be > 0", entryPrice)
	}
	stopDistance := math.Abs(entryPrice - stopPrice)
	if stopDistance == 0 {
		return 0, fmt.Errorf("sizing.Size: entry and stop price must differ")
	}

	riskBudget := equity * s.params.MaxRiskPerTrade
	qty := riskBudget / stopDistance

	maxNotional := equity * s.params.MaxPositionValuePct
	if qty*entryPrice > maxNotional {
		qty = maxNotional / entryPrice
	}

	if s.params.MaxQuantity > 0 && qty > s.params.MaxQuantity {
		qty = s.params.MaxQuantity
	}
	if qty < s.params.MinQuantity {
		qty = s.params.MinQuantity
	}
	if qty <= 0 {
		return 0, fmt.Errorf("sizing.Size: computed quantity %.8f is not usable", qty)
	}
	return qty, nil
}
