package domain

import "time"

// Trade is a round-trip position in one symbol. It is mutable while open
// (EntryQty may shrink, fees accumulate) and frozen once ExitAt is set.
type Trade struct {
	Symbol      string     `json:"symbol"`
	EntrySide   Side       `json:"entry_side"`
	EntryAt     time.Time  `json:"entry_at"`
	EntryPrice  float64    `json:"entry_price"`
	EntryQty    float64    `json:"entry_qty"`
	ExitAt      *time.Time `json:"exit_at,omitempty"`
	ExitPrice   float64    `json:"exit_price,omitempty"`
	ExitQty     float64    `json:"exit_qty,omitempty"`
	Fees        float64    `json:"fees"`
	PnL         float64    `json:"pnl"`
	ReturnPct   float64    `json:"return_pct"`
}

// OpenTrade starts a new trade from an opening fill.
func OpenTrade(fill Fill) Trade {
	return Trade{
		Symbol:     fill.Symbol,
		EntrySide:  fill.Side,
		EntryAt:    fill.Timestamp,
		EntryPrice: fill.Price,
		EntryQty:   fill.Quantity,
		Fees:       fill.Fee,
	}
}

// Extend folds a same-direction fill into the open trade: weighted-average
// entry price, added quantity, accumulated fees.
func (t *Trade) Extend(fill Fill) {
	totalCost := t.EntryPrice*t.EntryQty + fill.Price*fill.Quantity
	t.EntryQty += fill.Quantity
	t.EntryPrice = totalCost / t.EntryQty
	t.Fees += fill.Fee
}

// Close freezes the trade at exitQty/exitPrice/fee and computes PnL and
// ReturnPct using the direction-aware formula from §3.
func (t *Trade) Close(exitAt time.Time, exitPrice, exitQty, exitFee float64) {
	t.ExitAt = &exitAt
	t.ExitPrice = exitPrice
	t.ExitQty = exitQty
	t.Fees += exitFee

	sign := 1.0
	if t.EntrySide == Sell {
		sign = -1.0
	}
	t.PnL = sign*(exitPrice-t.EntryPrice)*exitQty - t.Fees
	if t.EntryPrice != 0 && exitQty != 0 {
		t.ReturnPct = t.PnL / (t.EntryPrice * exitQty) * 100
	}
}

// DurationSeconds returns the wall span of the trade, or 0 while open.
func (t Trade) DurationSeconds() float64 {
	if t.ExitAt == nil {
		return 0
	}
	return t.ExitAt.Sub(t.EntryAt).Seconds()
}

// IsOpen reports whether the trade has not yet been closed.
func (t Trade) IsOpen() bool {
	return t.ExitAt == nil
}
