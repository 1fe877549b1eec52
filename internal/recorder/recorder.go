// Package recorder implements the append-only audit sink observing a
// backtest run: bars, orders, fills, equity snapshots, and generic events.
package recorder

import (
	"time"

	"backtestlab/internal/domain"
)

// RunMeta describes a run at start.
type RunMeta struct {
	RunID     string
	Strategy  string
	Params    map[string]any
	StartedAt time.Time
}

// FinalState describes a run at end.
type FinalState struct {
	EndedAt     time.Time
	FinalEquity float64
	BarCount    int
	OrderCount  int
	FillCount   int
}

// Event is a generic timestamped record for anything not covered by a
// dedicated On* call.
type Event struct {
	Kind string         `json:"type"`
	At   time.Time      `json:"ts"`
	Data map[string]any `json:"data,omitempty"`
}

// Recorder observes a run. Implementations must never panic and should
// treat sink failures as non-fatal to the run.
type Recorder interface {
	OnStart(meta RunMeta)
	OnBar(bar domain.Bar)
	OnOrder(order domain.Order)
	OnFill(fill domain.Fill)
	OnEquityUpdate(pt domain.EquityPoint)
	OnEnd(final FinalState)
	OnEvent(kind string, data map[string]any)
}
