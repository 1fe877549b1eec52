package metrics

import "testing"

func TestCompareStrategies_RanksByReturnThenSharpeThenDrawdown(t *testing.T) {
	reports := []Report{
		{Strategy: "a", Summary: Summary{CurveMetrics: CurveMetrics{TotalReturn: 0.10, Sharpe: 1.0, MaxDrawdown: -0.2}}},
		{Strategy: "b", Summary: Summary{CurveMetrics: CurveMetrics{TotalReturn: 0.20, Sharpe: 0.5, MaxDrawdown: -0.3}}},
		{Strategy: "c", Summary: Summary{CurveMetrics: CurveMetrics{TotalReturn: 0.10, Sharpe: 1.5, MaxDrawdown: -0.1}}},
	}

	ranked := CompareStrategies(reports)

	want := []string{"b", "c", "a"}
	for i, w := range want {
		if ranked[i].Strategy != w {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Strategy, w)
		}
	}
}

func TestCompareStrategies_TiebreaksOnDrawdown(t *testing.T) {
	reports := []Report{
		{Strategy: "deeper", Summary: Summary{CurveMetrics: CurveMetrics{TotalReturn: 0.1, Sharpe: 1.0, MaxDrawdown: -0.5}}},
		{Strategy: "shallower", Summary: Summary{CurveMetrics: CurveMetrics{TotalReturn: 0.1, Sharpe: 1.0, MaxDrawdown: -0.1}}},
	}

	ranked := CompareStrategies(reports)

	if ranked[0].Strategy != "shallower" {
		t.Errorf("ranked[0] = %q, want shallower", ranked[0].Strategy)
	}
}
