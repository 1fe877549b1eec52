package domain

import (
	"testing"
	"time"
)

func TestFill_CashDelta(t *testing.T) {
	buy, err := NewFill("ord-1", time.Now(), "BTC", Buy, 2, 50, 0.10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buy.CashDelta(); got != -100.10 {
		t.Fatalf("expected buy cash delta -100.10, got %v", got)
	}

	sell, err := NewFill("ord-2", time.Now(), "BTC", Sell, 2, 50, 0.10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sell.CashDelta(); got != 99.90 {
		t.Fatalf("expected sell cash delta 99.90, got %v", got)
	}
}

func TestFill_SignedQuantity(t *testing.T) {
	buy, _ := NewFill("ord-1", time.Now(), "BTC", Buy, 3, 10, 0)
	if buy.SignedQuantity() != 3 {
		t.Fatalf("expected +3, got %v", buy.SignedQuantity())
	}
	sell, _ := NewFill("ord-2", time.Now(), "BTC", Sell, 3, 10, 0)
	if sell.SignedQuantity() != -3 {
		t.Fatalf("expected -3, got %v", sell.SignedQuantity())
	}
}

func TestNewFill_RejectsNonPositivePrice(t *testing.T) {
	if _, err := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 0, 0); err == nil {
		t.Fatal("expected error for zero price")
	}
}

func TestNewFill_RejectsNegativeFee(t *testing.T) {
	if _, err := NewFill("ord-1", time.Now(), "BTC", Buy, 1, 10, -1); err == nil {
		t.Fatal("expected error for negative fee")
	}
}
