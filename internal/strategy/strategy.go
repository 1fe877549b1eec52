// Package strategy defines the contract trading strategies implement and
// ships reference implementations plus a process-wide registry.
package strategy

import "backtestlab/internal/domain"

// State is the read-only view a strategy receives on each OnBar call. It
// must never expose a way to mutate the portfolio directly.
type State interface {
	// Positions returns a snapshot of open positions by symbol.
	Positions() map[string]domain.Position
	// Cash returns current cash.
	Cash() float64
	// CurrentPrice returns the latest known price for a symbol, or false
	// if none has been observed yet.
	CurrentPrice(symbol string) (float64, bool)
	// NextOrderID returns a fresh, deterministic, monotonically
	// increasing order id scoped to the current run.
	NextOrderID() string
}

// Strategy is invoked by the simulator once per bar. Strategies must not
// depend on wall-clock time: the sequence of bars alone must determine
// the sequence of emitted orders.
type Strategy interface {
	// OnStart is invoked once before the loop begins.
	OnStart(universe []string, params map[string]any) error
	// OnBar is invoked once per bar, after any fills on that bar have
	// been applied to the portfolio.
	OnBar(bar domain.Bar, state State) ([]domain.Order, error)
	// OnEnd is invoked once after the feed is exhausted.
	OnEnd(state State) error
}

// Factory constructs a Strategy from caller-supplied parameters.
type Factory func(params map[string]any) (Strategy, error)

// Metadata describes a registered strategy for discovery purposes.
type Metadata struct {
	Name        string
	Description string
}
