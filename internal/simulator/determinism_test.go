package simulator

import (
	"context"
	"testing"

	"backtestlab/internal/clock"
	"backtestlab/internal/domain"
	testsupport "backtestlab/internal/testsupport"
)

// TestSimulator_RunIsDeterministic exercises the same bar/strategy fixture
// twice through a fresh Simulator each time and requires byte-identical
// results, matching the property that a run's only inputs are its config
// and its data. RunID is excluded since each Simulator draws a fresh one.
func TestSimulator_RunIsDeterministic(t *testing.T) {
	run := func() any {
		bars := newTestBars(t)
		clk := clock.NewHistorical(bars)
		br := newTestBroker(t)
		strat := &scriptedStrategy{orderOnBar: 0, side: domain.Buy, qty: 5}

		sim, err := New(strat, br, clk, 10_000, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result, err := sim.Run(context.Background(), []string{"AAA"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result.RunID = ""
		return result
	}

	testsupport.AssertDeterministic(t, run)
}
