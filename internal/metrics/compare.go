package metrics

import "sort"

// Ranking is one strategy's position in a comparison, carrying the metrics
// that drove its rank alongside the report it was computed from.
type Ranking struct {
	Strategy    string  `json:"strategy"`
	TotalReturn float64 `json:"total_return"`
	Sharpe      float64 `json:"sharpe"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Report      Report  `json:"-"`
}

// CompareStrategies ranks reports by total return, then Sharpe, then
// max drawdown (largest, i.e. least negative, wins ties).
func CompareStrategies(reports []Report) []Ranking {
	rankings := make([]Ranking, len(reports))
	for i, r := range reports {
		rankings[i] = Ranking{
			Strategy:    r.Strategy,
			TotalReturn: r.Summary.TotalReturn,
			Sharpe:      r.Summary.Sharpe,
			MaxDrawdown: r.Summary.MaxDrawdown,
			Report:      r,
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.TotalReturn != b.TotalReturn {
			return a.TotalReturn > b.TotalReturn
		}
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		return a.MaxDrawdown > b.MaxDrawdown
	})
	return rankings
}
