// Package domain defines the core value types of the simulation engine:
// bars, orders, fills, positions, portfolios, trades and equity points.
// Every constructor here is a validation boundary — a Bar, Order or Fill
// that exists in memory is guaranteed to satisfy its invariants.
package domain

import (
	"fmt"
	"time"
)

// Bar is one immutable OHLCV sample for a symbol at a point in time.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// NewBar validates and constructs a Bar. The timestamp is normalized to UTC.
func NewBar(ts time.Time, symbol string, open, high, low, close, volume float64) (Bar, error) {
	if symbol == "" {
		return Bar{}, fmt.Errorf("domain.NewBar: symbol must not be empty")
	}
	hi := max(open, close)
	lo := min(open, close)
	if high < hi {
		return Bar{}, fmt.Errorf("domain.NewBar: high %.8f must be >= max(open,close) %.8f", high, hi)
	}
	if lo < low {
		return Bar{}, fmt.Errorf("domain.NewBar: min(open,close) %.8f must be >= low %.8f", lo, low)
	}
	if volume < 0 {
		return Bar{}, fmt.Errorf("domain.NewBar: volume %.8f must be >= 0", volume)
	}
	return Bar{
		Timestamp: ts.UTC(),
		Symbol:    symbol,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}, nil
}
