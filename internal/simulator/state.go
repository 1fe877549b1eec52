package simulator

import (
	"fmt"
	"sync/atomic"
	"time"

	"backtestlab/internal/domain"
	"backtestlab/internal/portfolio"
)

// zeroTime is returned as the close-out timestamp when a run's clock
// yields no bars at all, so CloseAll still has a defined timestamp to use.
var zeroTime time.Time

// equityPointAt wraps the portfolio's current Equity/Cash fields in an
// EquityPoint at ts, for the periodic (non-fill-triggered) mark-to-market
// pass; the caller marks the portfolio to market before calling it.
func equityPointAt(ts time.Time, m *portfolio.Manager) domain.EquityPoint {
	return domain.NewEquityPoint(ts, m.Portfolio())
}

// runState implements strategy.State over a live Manager, giving
// strategies a read-only snapshot plus a deterministic order-id source.
type runState struct {
	runID   string
	manager *portfolio.Manager
	prices  map[string]float64
	seq     atomic.Uint64
}

func newRunState(runID string, manager *portfolio.Manager) *runState {
	return &runState{runID: runID, manager: manager, prices: make(map[string]float64)}
}

func (s *runState) Positions() map[string]domain.Position {
	out := make(map[string]domain.Position, len(s.manager.Portfolio().Positions))
	for symbol, pos := range s.manager.Portfolio().Positions {
		out[symbol] = pos
	}
	return out
}

func (s *runState) Cash() float64 {
	return s.manager.Portfolio().Cash
}

func (s *runState) CurrentPrice(symbol string) (float64, bool) {
	price, ok := s.prices[symbol]
	return price, ok
}

func (s *runState) NextOrderID() string {
	n := s.seq.Add(1)
	return fmt.Sprintf("%s-%06d", s.runID, n)
}
