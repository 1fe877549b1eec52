package domain

import (
	"testing"
	"time"
)

func TestNewOrder_MarketDefaults(t *testing.T) {
	o, err := NewOrder("ord-1", time.Now(), "BTC", Buy, 1, Market, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != Pending {
		t.Fatalf("expected PENDING status, got %s", o.Status)
	}
}

func TestNewOrder_LimitRequiresPrice(t *testing.T) {
	if _, err := NewOrder("ord-2", time.Now(), "BTC", Buy, 1, Limit, 0); err == nil {
		t.Fatal("expected error for limit order with zero price")
	}
}

func TestNewOrder_MarketRejectsLimitPrice(t *testing.T) {
	if _, err := NewOrder("ord-3", time.Now(), "BTC", Buy, 1, Market, 100); err == nil {
		t.Fatal("expected error for market order carrying a limit price")
	}
}

func TestNewOrder_RejectsNonPositiveQuantity(t *testing.T) {
	if _, err := NewOrder("ord-4", time.Now(), "BTC", Buy, 0, Market, 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestNewOrder_RejectsInvalidSide(t *testing.T) {
	if _, err := NewOrder("ord-5", time.Now(), "BTC", "HOLD", 1, Market, 0); err == nil {
		t.Fatal("expected error for invalid side")
	}
}
