package clock

import (
	"testing"
	"time"

	"backtestlab/internal/domain"
)

func bar(t *testing.T, symbol string, ts time.Time, price float64) domain.Bar {
	t.Helper()
	b, err := domain.NewBar(ts, symbol, price, price, price, price, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestHistorical_YieldsInOrderThenExhausts(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []domain.Bar{
		bar(t, "BTC", t0, 100),
		bar(t, "BTC", t0.Add(time.Hour), 101),
	}
	c := NewHistorical(bars)

	got, ok := c.Tick()
	if !ok || got.Close != 100 {
		t.Fatalf("expected first bar close 100, got %v ok=%v", got.Close, ok)
	}
	got, ok = c.Tick()
	if !ok || got.Close != 101 {
		t.Fatalf("expected second bar close 101, got %v ok=%v", got.Close, ok)
	}
	if _, ok := c.Tick(); ok {
		t.Fatal("expected exhaustion")
	}

	c.Reset()
	if _, ok := c.Tick(); !ok {
		t.Fatal("expected reset to rewind")
	}
}

func TestScheduled_GeneratesUntilEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	c, err := NewScheduled(start, end, time.Hour, func(ts time.Time) (domain.Bar, error) {
		return domain.NewBar(ts, "BTC", 100, 100, 100, 100, 1)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for {
		_, ok := c.Tick()
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 bars, got %d", count)
	}
}

func TestNewScheduled_RejectsInvalidRange(t *testing.T) {
	start := time.Now()
	if _, err := NewScheduled(start, start, time.Hour, func(time.Time) (domain.Bar, error) { return domain.Bar{}, nil }); err == nil {
		t.Fatal("expected error for non-positive range")
	}
}

func TestMultiSymbol_InterleavesByTimestampThenSymbol(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	btc := []domain.Bar{bar(t, "BTC", t0, 100), bar(t, "BTC", t0.Add(time.Hour), 101)}
	eth := []domain.Bar{bar(t, "ETH", t0, 10), bar(t, "ETH", t0.Add(2*time.Hour), 11)}

	c := NewMultiSymbol(map[string][]domain.Bar{"BTC": btc, "ETH": eth})

	var order []string
	for {
		b, ok := c.Tick()
		if !ok {
			break
		}
		order = append(order, b.Symbol)
	}

	// Same timestamp t0 for BTC and ETH: tiebreak favors BTC (lexicographically first).
	want := []string{"BTC", "ETH", "BTC", "ETH"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestMultiSymbol_ResetRewinds(t *testing.T) {
	t0 := time.Now()
	c := NewMultiSymbol(map[string][]domain.Bar{"BTC": {bar(t, "BTC", t0, 100)}})
	c.Tick()
	if _, ok := c.Tick(); ok {
		t.Fatal("expected exhaustion")
	}
	c.Reset()
	if _, ok := c.Tick(); !ok {
		t.Fatal("expected reset to rewind")
	}
}
