// Package portfolio owns the mutable per-run trading state: cash and
// positions (via domain.Portfolio), the equity curve, and the trade
// lifecycle (opening, averaging, closing, reversing).
package portfolio

import (
	"time"

	"backtestlab/internal/domain"
)

// Manager applies fills to a Portfolio and derives trades and equity
// points from them. Not safe for concurrent use; a run owns exactly one.
type Manager struct {
	portfolio   *domain.Portfolio
	equityCurve []domain.EquityPoint
	trades      []domain.Trade
	openTrades  map[string]*domain.Trade
}

// New constructs a Manager with a fresh Portfolio seeded with initialCash.
func New(initialCash float64) *Manager {
	return &Manager{
		portfolio:  domain.NewPortfolio(initialCash),
		openTrades: make(map[string]*domain.Trade),
	}
}

// Portfolio exposes the underlying cash/position state for read-only use
// by strategies and reporting.
func (m *Manager) Portfolio() *domain.Portfolio {
	return m.portfolio
}

// EquityCurve returns the equity points recorded so far, in order.
func (m *Manager) EquityCurve() []domain.EquityPoint {
	return m.equityCurve
}

// Trades returns closed trades in the order they closed.
func (m *Manager) Trades() []domain.Trade {
	return m.trades
}

// OpenTrades returns a snapshot of trades still open, keyed by symbol.
func (m *Manager) OpenTrades() map[string]domain.Trade {
	out := make(map[string]domain.Trade, len(m.openTrades))
	for symbol, t := range m.openTrades {
		out[symbol] = *t
	}
	return out
}

// ApplyFill updates cash/positions, advances the trade lifecycle for
// fill.Symbol, and appends a fresh EquityPoint at the fill's timestamp.
func (m *Manager) ApplyFill(fill domain.Fill, currentPrices map[string]float64) {
	m.portfolio.ApplyFill(fill)
	m.advanceTrade(fill)
	m.portfolio.MarkToMarket(currentPrices)
	m.equityCurve = append(m.equityCurve, domain.NewEquityPoint(fill.Timestamp, m.portfolio))
}

func (m *Manager) advanceTrade(fill domain.Fill) {
	open, ok := m.openTrades[fill.Symbol]
	if !ok {
		t := domain.OpenTrade(fill)
		m.openTrades[fill.Symbol] = &t
		return
	}

	if fill.Side == open.EntrySide {
		open.Extend(fill)
		return
	}

	if fill.Quantity < open.EntryQty {
		open.EntryQty -= fill.Quantity
		return
	}

	open.Close(fill.Timestamp, fill.Price, open.EntryQty, fill.Fee)
	m.trades = append(m.trades, *open)
	delete(m.openTrades, fill.Symbol)

	residual := fill.Quantity - open.EntryQty
	if residual > 0 {
		reverse := domain.Trade{
			Symbol:     fill.Symbol,
			EntrySide:  fill.Side,
			EntryAt:    fill.Timestamp,
			EntryPrice: fill.Price,
			EntryQty:   residual,
		}
		m.openTrades[fill.Symbol] = &reverse
	}
}

// CloseAll forcibly closes every open trade at the given prices (falling
// back to the trade's own entry price when a symbol is missing), with
// zero exit fee, and marks the portfolio to market a final time.
func (m *Manager) CloseAll(ts time.Time, prices map[string]float64) {
	for symbol, open := range m.openTrades {
		price, ok := prices[symbol]
		if !ok {
			price = open.EntryPrice
		}
		open.Close(ts, price, open.EntryQty, 0)
		m.trades = append(m.trades, *open)
	}
	m.openTrades = make(map[string]*domain.Trade)

	m.portfolio.MarkToMarket(prices)
	m.equityCurve = append(m.equityCurve, domain.NewEquityPoint(ts, m.portfolio))
}
