package metrics

import (
	"math"

	"backtestlab/internal/domain"
)

// TradeMetrics summarizes realized trade outcomes.
type TradeMetrics struct {
	TotalTrades      int     `json:"total_trades"`
	WinningTrades    int     `json:"winning_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	ProfitFactor     float64 `json:"profit_factor"`
	GrossProfit      float64 `json:"gross_profit"`
	GrossLoss        float64 `json:"gross_loss"`
	AvgWin           float64 `json:"avg_win"`
	AvgLoss          float64 `json:"avg_loss"`
	LargestWin       float64 `json:"largest_win"`
	LargestLoss      float64 `json:"largest_loss"`
	AvgDurationHours float64 `json:"avg_duration_hours"`
}

// ComputeTradeMetrics summarizes closed trades. Open trades are ignored;
// callers pass only the realized trade list.
func ComputeTradeMetrics(trades []domain.Trade) TradeMetrics {
	m := TradeMetrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	var totalDurationHours float64
	for _, t := range trades {
		switch {
		case t.PnL > 0:
			m.WinningTrades++
			m.GrossProfit += t.PnL
			if t.PnL > m.LargestWin {
				m.LargestWin = t.PnL
			}
		case t.PnL < 0:
			m.LosingTrades++
			loss := math.Abs(t.PnL)
			m.GrossLoss += loss
			if loss > m.LargestLoss {
				m.LargestLoss = loss
			}
		}
		totalDurationHours += t.DurationSeconds() / 3600
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
	m.AvgDurationHours = totalDurationHours / float64(m.TotalTrades)

	if m.WinningTrades > 0 {
		m.AvgWin = m.GrossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = m.GrossLoss / float64(m.LosingTrades)
	}
	if m.GrossLoss > 0 {
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	}
	return m
}
