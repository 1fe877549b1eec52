package execution

import (
	"testing"
	"time"

	"backtestlab/internal/domain"
)

func mustBar(t *testing.T, close, volume float64) domain.Bar {
	t.Helper()
	b, err := domain.NewBar(time.Now(), "BTC", close, close, close, close, volume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func mustOrder(t *testing.T, side domain.Side, qty float64) domain.Order {
	t.Helper()
	o, err := domain.NewOrder("ord-1", time.Now(), "BTC", side, qty, domain.Market, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

func TestNoSlippage_ReturnsBaseUnchanged(t *testing.T) {
	bar := mustBar(t, 100, 10)
	order := mustOrder(t, domain.Buy, 1)
	price, err := NoSlippage{}.Apply(bar, order, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 100 {
		t.Fatalf("expected 100, got %v", price)
	}
}

func TestFixedSlippage_AdverseDirection(t *testing.T) {
	s, err := NewFixedSlippage(100) // 1%
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bar := mustBar(t, 100, 10)

	buy := mustOrder(t, domain.Buy, 1)
	price, err := s.Apply(bar, buy, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 101 {
		t.Fatalf("expected buy price 101, got %v", price)
	}

	sell := mustOrder(t, domain.Sell, 1)
	price, err = s.Apply(bar, sell, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 99 {
		t.Fatalf("expected sell price 99, got %v", price)
	}
}

func TestNewFixedSlippage_RejectsNegative(t *testing.T) {
	if _, err := NewFixedSlippage(-1); err == nil {
		t.Fatal("expected error for negative bps")
	}
}

func TestVolumeSlippage_ScalesWithOrderSize(t *testing.T) {
	s, err := NewVolumeSlippage(10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bar := mustBar(t, 100, 10)
	order := mustOrder(t, domain.Buy, 5) // volume_fraction = 0.5

	price, err := s.Apply(bar, order, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bps = 10 + 0.5*100*1 = 60 -> factor 0.006
	want := 100 * 1.006
	if price != want {
		t.Fatalf("expected %v, got %v", want, price)
	}
}

func TestVolumeSlippage_ZeroBarVolume(t *testing.T) {
	s, err := NewVolumeSlippage(10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bar := mustBar(t, 100, 0)
	order := mustOrder(t, domain.Buy, 5)

	price, err := s.Apply(bar, order, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 * 1.001 // bps = 10 only
	if price != want {
		t.Fatalf("expected %v, got %v", want, price)
	}
}

func TestNewVolumeSlippage_RejectsNegativeParams(t *testing.T) {
	if _, err := NewVolumeSlippage(-1, 1); err == nil {
		t.Fatal("expected error for negative base_bps")
	}
	if _, err := NewVolumeSlippage(1, -1); err == nil {
		t.Fatal("expected error for negative volume_impact")
	}
}
