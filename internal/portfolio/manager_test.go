package portfolio

import (
	"testing"
	"time"

	"backtestlab/internal/domain"
)

func TestManager_OpenExtendClose(t *testing.T) {
	m := New(1_000)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	buy1, _ := domain.NewFill("ord-1", t0, "BTC", domain.Buy, 1, 10, 0)
	m.ApplyFill(buy1, map[string]float64{"BTC": 10})

	buy2, _ := domain.NewFill("ord-2", t0.Add(time.Hour), "BTC", domain.Buy, 1, 11, 0)
	m.ApplyFill(buy2, map[string]float64{"BTC": 11})

	open := m.OpenTrades()["BTC"]
	if open.EntryQty != 2 {
		t.Fatalf("expected open qty 2, got %v", open.EntryQty)
	}
	if open.EntryPrice != 10.5 {
		t.Fatalf("expected avg entry 10.5, got %v", open.EntryPrice)
	}

	sell, _ := domain.NewFill("ord-3", t0.Add(2*time.Hour), "BTC", domain.Sell, 2, 9, 0)
	m.ApplyFill(sell, map[string]float64{"BTC": 9})

	trades := m.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.PnL != -3 { // (9 - 10.5) * 2
		t.Fatalf("expected pnl -3, got %v", tr.PnL)
	}
	pnl, cost := -3.0, 10.5*2.0
	wantReturn := pnl / cost * 100
	if tr.ReturnPct != wantReturn {
		t.Fatalf("expected return_pct %v, got %v", wantReturn, tr.ReturnPct)
	}
	if len(m.OpenTrades()) != 0 {
		t.Fatal("expected no open trades after full close")
	}

	curve := m.EquityCurve()
	if len(curve) != 3 {
		t.Fatalf("expected 3 equity points, got %d", len(curve))
	}
}

func TestManager_ReverseSpawnsNewTradeFromResidual(t *testing.T) {
	m := New(1_000)
	t0 := time.Now()

	buy, _ := domain.NewFill("ord-1", t0, "BTC", domain.Buy, 1, 100, 0)
	m.ApplyFill(buy, map[string]float64{"BTC": 100})

	sell, _ := domain.NewFill("ord-2", t0.Add(time.Hour), "BTC", domain.Sell, 3, 90, 0)
	m.ApplyFill(sell, map[string]float64{"BTC": 90})

	trades := m.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(trades))
	}
	if trades[0].ExitQty != 1 {
		t.Fatalf("expected exit qty 1, got %v", trades[0].ExitQty)
	}

	open, ok := m.OpenTrades()["BTC"]
	if !ok {
		t.Fatal("expected a reverse trade to be open")
	}
	if open.EntrySide != domain.Sell {
		t.Fatalf("expected reverse trade side SELL, got %v", open.EntrySide)
	}
	if open.EntryQty != 2 {
		t.Fatalf("expected residual qty 2, got %v", open.EntryQty)
	}
	if open.Fees != 0 {
		t.Fatalf("expected reverse trade fees 0, got %v", open.Fees)
	}
}

func TestManager_PartialReduceDoesNotClose(t *testing.T) {
	m := New(1_000)
	t0 := time.Now()

	buy, _ := domain.NewFill("ord-1", t0, "BTC", domain.Buy, 3, 100, 0)
	m.ApplyFill(buy, map[string]float64{"BTC": 100})

	sell, _ := domain.NewFill("ord-2", t0.Add(time.Hour), "BTC", domain.Sell, 1, 110, 0)
	m.ApplyFill(sell, map[string]float64{"BTC": 110})

	if len(m.Trades()) != 0 {
		t.Fatal("expected no closed trades on partial reduce")
	}
	open := m.OpenTrades()["BTC"]
	if open.EntryQty != 2 {
		t.Fatalf("expected remaining qty 2, got %v", open.EntryQty)
	}
}

// scenario 5: force-close on exhaustion
func TestManager_CloseAll_ForceClosesAtLastPrice(t *testing.T) {
	m := New(1_000)
	t0 := time.Now()

	buy, _ := domain.NewFill("ord-1", t0, "BTC", domain.Buy, 1, 100, 0)
	m.ApplyFill(buy, map[string]float64{"BTC": 100})

	endTs := t0.Add(24 * time.Hour)
	m.CloseAll(endTs, map[string]float64{"BTC": 110})

	trades := m.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.ExitPrice != 110 {
		t.Fatalf("expected exit price 110, got %v", tr.ExitPrice)
	}
	if tr.PnL != 10 {
		t.Fatalf("expected pnl 10, got %v", tr.PnL)
	}
	if tr.Fees != 0 {
		t.Fatalf("expected zero exit fee, got %v", tr.Fees)
	}
	if len(m.OpenTrades()) != 0 {
		t.Fatal("expected no open trades after CloseAll")
	}
}
