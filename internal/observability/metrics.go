package observability

import (
	"context"
	"time"
)

// RecordFillExecuted logs a fill as a metric event: symbol, side, quantity,
// price and fee, so a log pipeline can aggregate execution volume without
// parsing recorder output.
func RecordFillExecuted(ctx context.Context, symbol, side string, quantity, price, fee float64) {
	LogEvent(ctx, "info", "metric", map[string]any{
		"name":     "fill_executed",
		"symbol":   symbol,
		"side":     side,
		"quantity": quantity,
		"price":    price,
		"fee":      fee,
	})
}

// RecordOrderSubmitted logs an order admission outcome.
func RecordOrderSubmitted(ctx context.Context, orderID, symbol string, accepted bool) {
	LogEvent(ctx, "info", "metric", map[string]any{
		"name":     "order_submitted",
		"order_id": orderID,
		"symbol":   symbol,
		"accepted": accepted,
	})
}

// RecordRunCompleted logs the terminal metrics of a backtest run.
func RecordRunCompleted(ctx context.Context, duration time.Duration, barCount int, finalEquity float64, err error) {
	fields := map[string]any{
		"name":         "run_completed",
		"latency_ms":   duration.Milliseconds(),
		"bar_count":    barCount,
		"final_equity": finalEquity,
		"success":      err == nil,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	LogEvent(ctx, "info", "metric", fields)
}
