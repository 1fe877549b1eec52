package strategy

import (
	"testing"
	"time"

	"backtestlab/internal/domain"
	"backtestlab/internal/sizing"
)

func newTestSizer(t *testing.T) sizing.PositionSizer {
	t.Helper()
	sizer, err := sizing.NewPositionSizer(sizing.RiskParameters{MaxRiskPerTrade: 0.1, MaxPositionValuePct: 1.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sizer
}

func TestRiskManagedMACrossover_SizesEntryFromEquityAndStopDistance(t *testing.T) {
	strat, err := NewRiskManagedMACrossover(2, 3, newTestSizer(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := strat.OnStart([]string{"BTC"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closes := []float64{10, 10.5, 11, 12}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := newFakeState()
	state.cash = 10_000

	var allOrders []domain.Order
	for i, c := range closes {
		bar, err := domain.NewBar(t0.Add(time.Duration(i)*time.Hour), "BTC", c, c, c, c, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		orders, err := strat.OnBar(bar, state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		allOrders = append(allOrders, orders...)
	}

	if len(allOrders) != 1 {
		t.Fatalf("expected 1 entry order, got %d: %+v", len(allOrders), allOrders)
	}
	if allOrders[0].Side != domain.Buy {
		t.Fatalf("expected a BUY order, got %+v", allOrders[0])
	}
	if allOrders[0].Quantity <= 0 {
		t.Fatalf("expected a positive sized quantity, got %v", allOrders[0].Quantity)
	}
}

func TestRiskManagedMACrossover_SellsFullLongOnBearishCross(t *testing.T) {
	strat, err := NewRiskManagedMACrossover(2, 3, newTestSizer(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := strat.OnStart([]string{"BTC"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := newFakeState()
	state.cash = 10_000
	state.positions["BTC"] = domain.Position{Symbol: "BTC", Quantity: 3, AvgEntryPrice: 11}

	closes := []float64{10, 10.5, 11, 10, 9}
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var allOrders []domain.Order
	for i, c := range closes {
		bar, err := domain.NewBar(t0.Add(time.Duration(i)*time.Hour), "BTC", c, c, c, c, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		orders, err := strat.OnBar(bar, state)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		allOrders = append(allOrders, orders...)
	}

	var sawSell bool
	for _, o := range allOrders {
		if o.Side == domain.Sell {
			sawSell = true
			if o.Quantity != 3 {
				t.Fatalf("expected to sell the full long of 3, got %v", o.Quantity)
			}
		}
	}
	if !sawSell {
		t.Fatal("expected a SELL order on the bearish cross")
	}
}

func TestNewRiskManagedMACrossover_RejectsInvalidPeriods(t *testing.T) {
	sizer := newTestSizer(t)
	if _, err := NewRiskManagedMACrossover(1, 3, sizer); err == nil {
		t.Fatal("expected error for fast_period < 2")
	}
	if _, err := NewRiskManagedMACrossover(3, 3, sizer); err == nil {
		t.Fatal("expected error for fast_period >= slow_period")
	}
}
