package execution

import (
	"fmt"
	"sort"

	"backtestlab/internal/domain"
)

// FeeModel computes a non-negative fee for a trade leg.
type FeeModel interface {
	Compute(symbol string, qty, price float64, side domain.Side) (float64, error)
}

// NoFee always returns zero.
type NoFee struct{}

func (NoFee) Compute(_ string, _, _ float64, _ domain.Side) (float64, error) {
	return 0, nil
}

// PercentageFee charges pct percent of notional.
type PercentageFee struct {
	Pct float64
}

// NewPercentageFee validates pct >= 0.
func NewPercentageFee(pct float64) (PercentageFee, error) {
	if pct < 0 {
		return PercentageFee{}, fmt.Errorf("execution.NewPercentageFee: pct %.4f must be >= 0", pct)
	}
	return PercentageFee{Pct: pct}, nil
}

func (f PercentageFee) Compute(_ string, qty, price float64, _ domain.Side) (float64, error) {
	return qty * price * f.Pct / 100, nil
}

// FeeTier is one rate bracket: notional >= Threshold charges Pct.
type FeeTier struct {
	Threshold float64
	Pct       float64
}

// TieredFee applies the rate of the greatest tier whose threshold is at or
// below the trade's notional.
type TieredFee struct {
	tiers []FeeTier // sorted ascending by Threshold
}

// NewTieredFee validates a non-empty tier list and sorts it by threshold.
func NewTieredFee(tiers []FeeTier) (TieredFee, error) {
	if len(tiers) == 0 {
		return TieredFee{}, fmt.Errorf("execution.NewTieredFee: tiers must not be empty")
	}
	sorted := append([]FeeTier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })
	return TieredFee{tiers: sorted}, nil
}

func (f TieredFee) Compute(_ string, qty, price float64, _ domain.Side) (float64, error) {
	notional := qty * price
	pct := f.tiers[0].Pct
	for _, tier := range f.tiers {
		if tier.Threshold <= notional {
			pct = tier.Pct
		}
	}
	return notional * pct / 100, nil
}
