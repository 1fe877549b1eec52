package domain

import "time"

// EquityPoint is an immutable sample of portfolio value over time.
type EquityPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	Equity         float64   `json:"equity"`
	Cash           float64   `json:"cash"`
	PositionsValue float64   `json:"positions_value"`
}

// NewEquityPoint snapshots a Portfolio at ts.
func NewEquityPoint(ts time.Time, p *Portfolio) EquityPoint {
	return EquityPoint{
		Timestamp:      ts.UTC(),
		Equity:         p.Equity,
		Cash:           p.Cash,
		PositionsValue: p.Equity - p.Cash,
	}
}
