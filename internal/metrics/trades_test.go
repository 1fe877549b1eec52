package metrics

import (
	"testing"
	"time"

	"backtestlab/internal/domain"
)

func closedTrade(t *testing.T, symbol string, side domain.Side, entry, exit, fees float64, durationHours float64) domain.Trade {
	t.Helper()
	entryAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exitAt := entryAt.Add(time.Duration(durationHours * float64(time.Hour)))
	tr := domain.Trade{
		Symbol:     symbol,
		EntrySide:  side,
		EntryAt:    entryAt,
		EntryPrice: entry,
		EntryQty:   1,
	}
	tr.Close(exitAt, exit, 1, fees)
	return tr
}

func TestComputeTradeMetrics_ProfitFactorAndRates(t *testing.T) {
	trades := []domain.Trade{
		closedTrade(t, "AAA", domain.Buy, 100, 110, 0, 24), // +10 win
		closedTrade(t, "AAA", domain.Buy, 100, 90, 0, 12),  // -10 loss
		closedTrade(t, "AAA", domain.Buy, 100, 120, 0, 6),  // +20 win
	}

	m := ComputeTradeMetrics(trades)

	if m.TotalTrades != 3 {
		t.Fatalf("TotalTrades = %d, want 3", m.TotalTrades)
	}
	if m.WinningTrades != 2 || m.LosingTrades != 1 {
		t.Errorf("win/loss = %d/%d, want 2/1", m.WinningTrades, m.LosingTrades)
	}
	wantWinRate := 2.0 / 3.0
	if diff := m.WinRate - wantWinRate; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("WinRate = %v, want %v", m.WinRate, wantWinRate)
	}
	if m.ProfitFactor != 3.0 { // 30 gross profit / 10 gross loss
		t.Errorf("ProfitFactor = %v, want 3.0", m.ProfitFactor)
	}
	if m.LargestWin != 20 {
		t.Errorf("LargestWin = %v, want 20", m.LargestWin)
	}
	if m.LargestLoss != 10 {
		t.Errorf("LargestLoss = %v, want 10", m.LargestLoss)
	}
	wantAvgDuration := (24.0 + 12.0 + 6.0) / 3.0
	if diff := m.AvgDurationHours - wantAvgDuration; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("AvgDurationHours = %v, want %v", m.AvgDurationHours, wantAvgDuration)
	}
}

func TestComputeTradeMetrics_NoTradesIsZeroValue(t *testing.T) {
	m := ComputeTradeMetrics(nil)
	if m != (TradeMetrics{}) {
		t.Errorf("expected zero value for no trades, got %+v", m)
	}
}

func TestComputeTradeMetrics_ProfitFactorZeroWithoutLosses(t *testing.T) {
	trades := []domain.Trade{closedTrade(t, "AAA", domain.Buy, 100, 110, 0, 1)}
	m := ComputeTradeMetrics(trades)
	if m.ProfitFactor != 0 {
		t.Errorf("expected ProfitFactor 0 with no losses, got %v", m.ProfitFactor)
	}
}
