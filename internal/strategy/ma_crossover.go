package strategy

import (
	"fmt"

	"backtestlab/internal/domain"
)

// MACrossover buys on a bullish fast/slow moving-average cross and sells
// an existing long on a bearish cross. It carries no state beyond its own
// per-symbol close buffers, so the sequence of bars alone determines the
// sequence of orders it emits.
type MACrossover struct {
	fastPeriod   int
	slowPeriod   int
	positionSize float64

	fast map[string][]float64
	slow map[string][]float64
	prev map[string]int // previous signal per symbol: -1, 0, +1
}

// NewMACrossover validates fast < slow and both >= 2.
func NewMACrossover(fastPeriod, slowPeriod int, positionSize float64) (*MACrossover, error) {
	if fastPeriod < 2 {
		return nil, fmt.Errorf("strategy.NewMACrossover: fast_period %d must be >= 2", fastPeriod)
	}
	if slowPeriod < 2 {
		return nil, fmt.Errorf("strategy.NewMACrossover: slow_period %d must be >= 2", slowPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("strategy.NewMACrossover: fast_period %d must be < slow_period %d", fastPeriod, slowPeriod)
	}
	if positionSize <= 0 {
		return nil, fmt.Errorf("strategy.NewMACrossover: position_size %.8f must be > 0", positionSize)
	}
	return &MACrossover{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		positionSize: positionSize,
		fast:         make(map[string][]float64),
		slow:         make(map[string][]float64),
		prev:         make(map[string]int),
	}, nil
}

// NewMACrossoverFactory adapts NewMACrossover to the Factory signature for
// registry use, reading fast_period/slow_period/position_size from params.
func NewMACrossoverFactory(params map[string]any) (Strategy, error) {
	fast, err := intParam(params, "fast_period", 10)
	if err != nil {
		return nil, err
	}
	slow, err := intParam(params, "slow_period", 30)
	if err != nil {
		return nil, err
	}
	size, err := floatParam(params, "position_size", 1)
	if err != nil {
		return nil, err
	}
	return NewMACrossover(fast, slow, size)
}

func (m *MACrossover) OnStart(universe []string, _ map[string]any) error {
	for _, symbol := range universe {
		m.fast[symbol] = nil
		m.slow[symbol] = nil
		m.prev[symbol] = 0
	}
	return nil
}

func (m *MACrossover) OnBar(bar domain.Bar, state State) ([]domain.Order, error) {
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
		shortQty := 0.0
		if hasPosition && pos.Quantity < 0 {
			shortQty = -pos.Quantity
		}
		order, err := domain.NewOrder(state.NextOrderID(), bar.Timestamp, bar.Symbol, domain.Buy, shortQty+m.positionSize, domain.Market, 0)
		if err != nil {
			return nil, fmt.Errorf("strategy.MACrossover.OnBar: %w", err)
		}
		return []domain.Order{order}, nil
	}

	if signal == -1 && hasPosition && pos.Quantity > 0 {
		order, err := domain.NewOrder(state.NextOrderID(), bar.Timestamp, bar.Symbol, domain.Sell, pos.Quantity, domain.Market, 0)
		if err != nil {
			return nil, fmt.Errorf("strategy.MACrossover.OnBar: %w", err)
		}
		return []domain.Order{order}, nil
	}

	return nil, nil
}

func (m *MACrossover) OnEnd(_ State) error {
	return nil
}

func pushWindow(buf []float64, v float64, size int) []float64 {
	buf = append(buf, v)
	if len(buf) > size {
		buf = buf[len(buf)-size:]
	}
	return buf
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func intParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("strategy: param %q must be a number", key)
	}
}

func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("strategy: param %q must be a number", key)
	}
}
