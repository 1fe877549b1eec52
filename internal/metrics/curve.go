// Package metrics computes performance statistics over a completed
// backtest's equity curve and trades, and assembles them into a report.
package metrics

import (
	"math"

	"backtestlab/internal/domain"
)

// tradingDaysPerYear annualizes per-step returns; the equity curve is not
// necessarily daily (mark-to-market also fires on fills), so this is an
// approximation shared with the curve's annualized-volatility figure.
const tradingDaysPerYear = 252

// CurveMetrics summarizes an equity curve independent of individual trades.
type CurveMetrics struct {
	TotalReturn          float64 `json:"total_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Sharpe               float64 `json:"sharpe"`
	Sortino              float64 `json:"sortino"`
	Calmar               float64 `json:"calmar"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	MaxDrawdownDays      float64 `json:"max_drawdown_days"`
	WinRate              float64 `json:"win_rate"`
}

// ComputeCurveMetrics derives CurveMetrics from curve. riskFree is an
// annualized rate (e.g. 0.05 for 5%). Returns the zero value for a curve
// with fewer than two points.
func ComputeCurveMetrics(curve []domain.EquityPoint, riskFree float64) CurveMetrics {
	if len(curve) < 2 {
		return CurveMetrics{}
	}

	returns := stepReturns(curve)
	totalReturn := totalReturn(curve)
	years := yearsSpanned(curve)
	annualizedReturn := annualize(totalReturn, years)
	vol := annualizedVolatility(returns)

	maxDD, maxDDDays := maxDrawdown(curve)

	sharpe := 0.0
	if vol != 0 {
		sharpe = (annualizedReturn - riskFree) / vol
	}

	sortino := computeSortino(returns, annualizedReturn, riskFree, sharpe)

	calmar := 0.0
	if maxDD != 0 {
		calmar = annualizedReturn / math.Abs(maxDD)
	}

	return CurveMetrics{
		TotalReturn:          totalReturn,
		AnnualizedReturn:      annualizedReturn,
		AnnualizedVolatility:  vol,
		Sharpe:                sharpe,
		Sortino:               sortino,
		Calmar:                calmar,
		MaxDrawdown:           maxDD,
		MaxDrawdownDays:       maxDDDays,
		WinRate:               winRate(returns),
	}
}

// stepReturns computes r_i = (E_i - E_{i-1}) / E_{i-1}, skipping any step
// whose prior equity is zero.
func stepReturns(curve []domain.EquityPoint) []float64 {
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	return returns
}

func totalReturn(curve []domain.EquityPoint) float64 {
	initial := curve[0].Equity
	if initial == 0 {
		return 0
	}
	return (curve[len(curve)-1].Equity - initial) / initial
}

func yearsSpanned(curve []domain.EquityPoint) float64 {
	days := curve[len(curve)-1].Timestamp.Sub(curve[0].Timestamp).Hours() / 24
	return days / 365.25
}

func annualize(totalReturn, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}

// annualizedVolatility uses the biased (population) mean-square deviation,
// annualized by sqrt(252).
func annualizedVolatility(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)
	var sumSq float64
	for _, r := range returns {
		d := r - m
		sumSq += d * d
	}
	sigma := math.Sqrt(sumSq / float64(len(returns)))
	return sigma * math.Sqrt(tradingDaysPerYear)
}

func computeSortino(returns []float64, annualizedReturn, riskFree, sharpeFallback float64) float64 {
	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return sharpeFallback
	}
	var sumSq float64
	for _, r := range downside {
		sumSq += r * r
	}
	downsideDev := math.Sqrt(sumSq/float64(len(downside))) * math.Sqrt(tradingDaysPerYear)
	if downsideDev == 0 {
		return sharpeFallback
	}
	return (annualizedReturn - riskFree) / downsideDev
}

// maxDrawdown scans equity tracking a running maximum, returning the most
// negative drawdown fraction and the longest span (in days) spent below a
// prior high without setting a new one.
func maxDrawdown(curve []domain.EquityPoint) (maxDD, maxDays float64) {
	peak := curve[0].Equity
	peakAt := curve[0].Timestamp
	var longestBelow float64

	for _, pt := range curve {
		if pt.Equity >= peak {
			peak = pt.Equity
			peakAt = pt.Timestamp
			continue
		}
		if peak == 0 {
			continue
		}
		dd := (pt.Equity - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
		belowDays := pt.Timestamp.Sub(peakAt).Hours() / 24
		if belowDays > longestBelow {
			longestBelow = belowDays
		}
	}
	return maxDD, longestBelow
}

func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
