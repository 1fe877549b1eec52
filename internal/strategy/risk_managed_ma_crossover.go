package strategy

import (
	"fmt"

	"backtestlab/internal/domain"
	"backtestlab/internal/sizing"
)

// RiskManagedMACrossover is MACrossover with quantity-on-entry driven by a
// PositionSizer instead of a fixed position_size: the slow moving average
// at the moment of the cross stands in for a protective stop, so equity at
// risk (not a flat share count) governs how large a position it opens.
type RiskManagedMACrossover struct {
	fastPeriod int
	slowPeriod int
	sizer      sizing.PositionSizer

	fast map[string][]float64
	slow map[string][]float64
	prev map[string]int
}

// NewRiskManagedMACrossover validates periods and wraps sizer.
func NewRiskManagedMACrossover(fastPeriod, slowPeriod int, sizer sizing.PositionSizer) (*RiskManagedMACrossover, error) {
	if fastPeriod < 2 {
		return nil, fmt.Errorf("strategy.NewRiskManagedMACrossover: fast_period %d must be >= 2", fastPeriod)
	}
	if slowPeriod < 2 {
		return nil, fmt.Errorf("strategy.NewRiskManagedMACrossover: slow_period %d must be >= 2", slowPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("strategy.NewRiskManagedMACrossover: fast_period %d must be < slow_period %d", fastPeriod, slowPeriod)
	}
	return &RiskManagedMACrossover{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		sizer:      sizer,
		fast:       make(map[string][]float64),
		slow:       make(map[string][]float64),
		prev:       make(map[string]int),
	}, nil
}

// NewRiskManagedMACrossoverFactory reads fast_period/slow_period plus the
// sizing.RiskParameters fields from params.
func NewRiskManagedMACrossoverFactory(params map[string]any) (Strategy, error) {
	fast, err := intParam(params, "fast_period", 10)
	if err != nil {
		return nil, err
	}
	slow, err := intParam(params, "slow_period", 30)
	if err != nil {
		return nil, err
	}
	maxRisk, err := floatParam(params, "max_risk_per_trade", 0.01)
	if err != nil {
		return nil, err
	}
	maxValuePct, err := floatParam(params, "max_position_value_pct", 0.2)
	if err != nil {
		return nil, err
	}
	sizer, err := sizing.NewPositionSizer(sizing.RiskParameters{
		MaxRiskPerTrade:     maxRisk,
		MaxPositionValuePct: maxValuePct,
	})
	if err != nil {
		return nil, err
	}
	return NewRiskManagedMACrossover(fast, slow, sizer)
}

func (m *RiskManagedMACrossover) OnStart(universe []string, _ map[string]any) error {
	for _, symbol := range universe {
		m.fast[symbol] = nil
		m.slow[symbol] = nil
		m.prev[symbol] = 0
	}
	return nil
}

func (m *RiskManagedMACrossover) OnBar(bar domain.Bar, state State) ([]domain.Order, error) {
	m.fast[bar.Symbol] = pushWindow(m.fast[bar.Symbol], bar.Close, m.fastPeriod)
	m.slow[bar.Symbol] = pushWindow(m.slow[bar.Symbol], bar.Close, m.slowPeriod)

	fastBuf := m.fast[bar.Symbol]
	slowBuf := m.slow[bar.Symbol]
	if len(fastBuf) < m.fastPeriod || len(slowBuf) < m.slowPeriod {
		return nil, nil
	}

	fastAvg := mean(fastBuf)
	slowAvg := mean(slowBuf)

	signal := 0
	switch {
	case fastAvg > slowAvg:
		signal = 1
	case fastAvg < slowAvg:
		signal = -1
	}

	prevSignal := m.prev[bar.Symbol]
	m.prev[bar.Symbol] = signal
	if signal == prevSignal {
		return nil, nil
	}

	positions := state.Positions()
	pos, hasPosition := positions[bar.Symbol]

	if signal == 1 {
		qty, err := m.sizer.Size(state.Cash(), bar.Close, slowAvg)
		if err != nil {
			return nil, nil // insufficient equity or degenerate stop distance: skip this entry
		}
		if hasPosition && pos.Quantity < 0 {
			qty += -pos.Quantity
		}
		order, err := domain.NewOrder(state.NextOrderID(), bar.Timestamp, bar.Symbol, domain.Buy, qty, domain.Market, 0)
		if err != nil {
			return nil, fmt.Errorf("strategy.RiskManagedMACrossover.OnBar: %w", err)
		}
		return []domain.Order{order}, nil
	}

	if signal == -1 && hasPosition && pos.Quantity > 0 {
		order, err := domain.NewOrder(state.NextOrderID(), bar.Timestamp, bar.Symbol, domain.Sell, pos.Quantity, domain.Market, 0)
		if err != nil {
			return nil, fmt.Errorf("strategy.RiskManagedMACrossover.OnBar: %w", err)
		}
		return []domain.Order{order}, nil
	}

	return nil, nil
}

func (m *RiskManagedMACrossover) OnEnd(_ State) error {
	return nil
}
