package metrics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"backtestlab/internal/domain"
	"backtestlab/internal/observability"
	"backtestlab/internal/simulator"
)

// DatasetInfo is opaque caller metadata describing the bar feed a run was
// executed against, surfaced in the report for audit purposes.
type DatasetInfo struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	FilePath    string `json:"file_path,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	BarCount    int    `json:"bar_count"`
}

// Summary unions initial capital, final equity, and the equity/trade
// metrics into the headline figures of a report.
type Summary struct {
	InitialCash float64 `json:"initial_cash"`
	FinalEquity float64 `json:"final_equity"`
	CurveMetrics
	Trades TradeMetrics `json:"trade_metrics"`
}

// Report is the structured result of a completed backtest run, assembled
// from a simulator.Result plus run/strategy/dataset identification.
type Report struct {
	RunID         string                `json:"run_id"`
	FlowID        string                `json:"flow_id,omitempty"`
	Strategy      string                `json:"strategy"`
	Params        map[string]any        `json:"params"`
	Dataset       DatasetInfo           `json:"dataset"`
	Summary       Summary               `json:"summary"`
	EquityCurve   []domain.EquityPoint  `json:"equity_curve"`
	DrawdownCurve []DrawdownPoint       `json:"drawdown_curve"`
	Trades        []domain.Trade        `json:"trades"`
	OpenTrades     map[string]domain.Trade `json:"open_trades,omitempty"`
	SummaryText   string                `json:"summary_text"`
}

// BuildReport assembles a Report from a completed (or partial) run result.
// riskFree is the annualized risk-free rate used by Sharpe/Sortino.
func BuildReport(ctx context.Context, result simulator.Result, strategyName string, params map[string]any, dataset DatasetInfo, riskFree float64) Report {
	curveMetrics := ComputeCurveMetrics(result.EquityCurve, riskFree)
	tradeMetrics := ComputeTradeMetrics(result.Trades)
	drawdown := ComputeDrawdownCurve(result.EquityCurve)

	summary := Summary{
		InitialCash:  result.InitialCash,
		FinalEquity:  result.FinalEquity,
		CurveMetrics: curveMetrics,
		Trades:       tradeMetrics,
	}

	report := Report{
		RunID:         result.RunID,
		FlowID:        observability.FlowIDFromContext(ctx),
		Strategy:      strategyName,
		Params:        params,
		Dataset:       dataset,
		Summary:       summary,
		EquityCurve:   result.EquityCurve,
		DrawdownCurve: drawdown,
		Trades:        result.Trades,
		OpenTrades:    result.OpenTrades,
	}
	report.SummaryText = report.summaryText()
	return report
}

func (r Report) summaryText() string {
	return fmt.Sprintf(
		"strategy=%s trades=%d win_rate=%.1f%% total_return=%.2f%% sharpe=%.2f max_drawdown=%.2f%% final_equity=%.2f",
		r.Strategy,
		r.Summary.Trades.TotalTrades,
		r.Summary.Trades.WinRate*100,
		r.Summary.CurveMetrics.TotalReturn*100,
		r.Summary.Sharpe,
		r.Summary.MaxDrawdown*100,
		r.Summary.FinalEquity,
	)
}

// DecimalMonetary is the export view of a Report's monetary fields, rounded
// to scale decimal places via shopspring/decimal. Used at the
// report/persistence boundary so callers needing exact decimal
// serialization don't re-derive it from floats.
type DecimalMonetary struct {
	InitialCash decimal.Decimal        `json:"initial_cash"`
	FinalEquity decimal.Decimal        `json:"final_equity"`
	GrossProfit decimal.Decimal        `json:"gross_profit"`
	GrossLoss   decimal.Decimal        `json:"gross_loss"`
	Trades      []DecimalTrade         `json:"trades"`
}

// DecimalTrade is a decimal-rounded view of one trade's monetary fields.
type DecimalTrade struct {
	Symbol     string          `json:"symbol"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
	Fees       decimal.Decimal `json:"fees"`
	PnL        decimal.Decimal `json:"pnl"`
}

// Decimal renders the report's monetary fields as decimal.Decimal values
// rounded to scale (e.g. 2 for cents).
func (r Report) Decimal(scale int32) DecimalMonetary {
	trades := make([]DecimalTrade, len(r.Trades))
	for i, t := range r.Trades {
		trades[i] = DecimalTrade{
			Symbol:     t.Symbol,
			EntryPrice: decimal.NewFromFloat(t.EntryPrice).Round(scale),
			ExitPrice:  decimal.NewFromFloat(t.ExitPrice).Round(scale),
			Fees:       decimal.NewFromFloat(t.Fees).Round(scale),
			PnL:        decimal.NewFromFloat(t.PnL).Round(scale),
		}
	}
	return DecimalMonetary{
		InitialCash: decimal.NewFromFloat(r.Summary.InitialCash).Round(scale),
		FinalEquity: decimal.NewFromFloat(r.Summary.FinalEquity).Round(scale),
		GrossProfit: decimal.NewFromFloat(r.Summary.Trades.GrossProfit).Round(scale),
		GrossLoss:   decimal.NewFromFloat(r.Summary.Trades.GrossLoss).Round(scale),
		Trades:      trades,
	}
}
