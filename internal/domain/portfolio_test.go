package domain

import (
	"testing"
	"time"
)

func TestPortfolio_ApplyFill_OpensAndCloses(t *testing.T) {
	p := NewPortfolio(10_000)

	buy, _ := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 100, 0)
	p.ApplyFill(buy)

	pos, ok := p.Positions["BTC"]
	if !ok {
		t.Fatal("expected open BTC position")
	}
	if pos.Quantity != 1 || pos.AvgEntryPrice != 100 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	if p.Cash != 9_900 {
		t.Fatalf("expected cash 9900, got %v", p.Cash)
	}

	sell, _ := NewFill("ord-2", time.Now(), "BTC", Sell, 1, 110, 0)
	p.ApplyFill(sell)

	if _, ok := p.Positions["BTC"]; ok {
		t.Fatal("expected position to be removed after flattening")
	}
	if p.Cash != 10_010 {
		t.Fatalf("expected cash 10010, got %v", p.Cash)
	}
}

func TestPortfolio_ApplyFill_WeightedAverage(t *testing.T) {
	p := NewPortfolio(10_000)

	first, _ := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 100, 0)
	p.ApplyFill(first)
	second, _ := NewFill("ord-2", time.Now(), "BTC", Buy, 1, 120, 0)
	p.ApplyFill(second)

	pos := p.Positions["BTC"]
	if pos.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %v", pos.Quantity)
	}
	if pos.AvgEntryPrice != 110 {
		t.Fatalf("expected avg price 110, got %v", pos.AvgEntryPrice)
	}
}

func TestPortfolio_ApplyFill_SignCrossResetsAverage(t *testing.T) {
	p := NewPortfolio(10_000)

	long, _ := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 100, 0)
	p.ApplyFill(long)

	flip, _ := NewFill("ord-2", time.Now(), "BTC", Sell, 2, 90, 0)
	p.ApplyFill(flip)

	pos := p.Positions["BTC"]
	if pos.Quantity != -1 {
		t.Fatalf("expected short quantity -1, got %v", pos.Quantity)
	}
	if pos.AvgEntryPrice != 90 {
		t.Fatalf("expected avg price reset to fill price 90, got %v", pos.AvgEntryPrice)
	}
}

func TestPortfolio_MarkToMarket(t *testing.T) {
	p := NewPortfolio(10_000)
	buy, _ := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 100, 0)
	p.ApplyFill(buy)

	p.MarkToMarket(map[string]float64{"BTC": 150})
	if p.Equity != 9_900+150 {
		t.Fatalf("expected equity %v, got %v", 9_900+150, p.Equity)
	}
}
