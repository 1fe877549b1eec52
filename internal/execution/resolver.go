package execution

import (
	"fmt"

	"backtestlab/internal/domain"
)

// Resolver turns an order and the bar it matches against into a fill, or
// reports that it cannot be filled this bar.
type Resolver interface {
	Resolve(bar domain.Bar, order domain.Order) (domain.Fill, bool, error)
}

// StandardResolver implements the base market/limit resolution: full
// quantity at the bar-derived base price, adjusted by slippage, fee on top.
type StandardResolver struct {
	Slippage SlippageModel
	Fee      FeeModel
}

// NewStandardResolver validates both models are present.
func NewStandardResolver(slippage SlippageModel, fee FeeModel) (StandardResolver, error) {
	if slippage == nil {
		return StandardResolver{}, fmt.Errorf("execution.NewStandardResolver: slippage must not be nil")
	}
	if fee == nil {
		return StandardResolver{}, fmt.Errorf("execution.NewStandardResolver: fee must not be nil")
	}
	return StandardResolver{Slippage: slippage, Fee: fee}, nil
}

func (r StandardResolver) Resolve(bar domain.Bar, order domain.Order) (domain.Fill, bool, error) {
	base, ok := basePrice(bar, order)
	if !ok {
		return domain.Fill{}, false, nil
	}
	return r.fillAt(bar, order, base, order.Quantity)
}

func (r StandardResolver) fillAt(bar domain.Bar, order domain.Order, base, qty float64) (domain.Fill, bool, error) {
	execPrice, err := r.Slippage.Apply(bar, order, base)
	if err != nil {
		return domain.Fill{}, false, fmt.Errorf("execution: slippage: %w", err)
	}
	if execPrice < 0 {
		return domain.Fill{}, false, fmt.Errorf("execution: slippage produced negative price %.8f", execPrice)
	}
	fee, err := r.Fee.Compute(order.Symbol, qty, execPrice, order.Side)
	if err != nil {
		return domain.Fill{}, false, fmt.Errorf("execution: fee: %w", err)
	}
	fill, err := domain.NewFill(order.ID, bar.Timestamp, order.Symbol, order.Side, qty, execPrice, fee)
	if err != nil {
		return domain.Fill{}, false, fmt.Errorf("execution: %w", err)
	}
	return fill, true, nil
}

// basePrice determines the pre-slippage reference price per §4.1 step 1.
func basePrice(bar domain.Bar, order domain.Order) (float64, bool) {
	switch order.Type {
	case domain.Market:
		return bar.Close, true
	case domain.Limit:
		switch order.Side {
		case domain.Buy:
			if bar.Low <= order.LimitPrice {
				return order.LimitPrice, true
			}
		case domain.Sell:
			if bar.High >= order.LimitPrice {
				return order.LimitPrice, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// RealisticResolver caps fill quantity by a fraction of bar volume and
// pre-adjusts the base price by a half-spread before slippage.
type RealisticResolver struct {
	Slippage   SlippageModel
	Fee        FeeModel
	MaxFillPct float64 // fraction of bar.Volume available to fill, e.g. 0.1
	SpreadBps  float64 // full spread in basis points; half applied adversely
}

// NewRealisticResolver validates model presence and parameter ranges.
func NewRealisticResolver(slippage SlippageModel, fee FeeModel, maxFillPct, spreadBps float64) (RealisticResolver, error) {
	if slippage == nil {
		return RealisticResolver{}, fmt.Errorf("execution.NewRealisticResolver: slippage must not be nil")
	}
	if fee == nil {
		return RealisticResolver{}, fmt.Errorf("execution.NewRealisticResolver: fee must not be nil")
	}
	if maxFillPct <= 0 {
		return RealisticResolver{}, fmt.Errorf("execution.NewRealisticResolver: max_fill_pct %.4f must be > 0", maxFillPct)
	}
	if spreadBps < 0 {
		return RealisticResolver{}, fmt.Errorf("execution.NewRealisticResolver: spread_bps %.4f must be >= 0", spreadBps)
	}
	return RealisticResolver{Slippage: slippage, Fee: fee, MaxFillPct: maxFillPct, SpreadBps: spreadBps}, nil
}

func (r RealisticResolver) Resolve(bar domain.Bar, order domain.Order) (domain.Fill, bool, error) {
	base, ok := basePrice(bar, order)
	if !ok {
		return domain.Fill{}, false, nil
	}

	capQty := r.MaxFillPct * bar.Volume
	if capQty <= 0 {
		return domain.Fill{}, false, nil
	}
	qty := order.Quantity
	if qty > capQty {
		qty = capQty
	}

	halfSpreadFactor := r.SpreadBps / 10_000 / 2
	adjusted := base
	if order.Side == domain.Buy {
		adjusted = base * (1 + halfSpreadFactor)
	} else {
		adjusted = base * (1 - halfSpreadFactor)
	}
	if adjusted < 0 {
		return domain.Fill{}, false, fmt.Errorf("execution: half-spread adjustment produced negative price %.8f", adjusted)
	}

	std := StandardResolver{Slippage: r.Slippage, Fee: r.Fee}
	return std.fillAt(bar, order, adjusted, qty)
}
