package metrics

import (
	"time"

	"backtestlab/internal/domain"
)

// DrawdownPoint is one sample of the drawdown curve: the fractional and
// percentage distance below the running equity high as of ts.
type DrawdownPoint struct {
	Timestamp time.Time `json:"ts"`
	DD        float64   `json:"dd"`
	DDPct     float64   `json:"dd_pct"`
}

// ComputeDrawdownCurve emits one DrawdownPoint per equity point: dd =
// (E - running_max) / running_max, 0 when running_max is 0.
func ComputeDrawdownCurve(curve []domain.EquityPoint) []DrawdownPoint {
	out := make([]DrawdownPoint, len(curve))
	peak := 0.0
	for i, pt := range curve {
		if pt.Equity > peak {
			peak = pt.Equity
		}
		dd := 0.0
		if peak != 0 {
			dd = (pt.Equity - peak) / peak
		}
		out[i] = DrawdownPoint{
			Timestamp: pt.Timestamp,
			DD:        dd,
			DDPct:     dd * 100,
		}
	}
	return out
}
