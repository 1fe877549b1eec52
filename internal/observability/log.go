package observability

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"
)

var logger = log.New(os.Stdout, "", 0)

func LogEvent(ctx context.Context, level string, event string, fields map[string]any) {
	payload := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"level": level,
		"event": event,
	}

	info := RunInfoFromContext(ctx)
	if info.FlowID != "" {
		payload["flow_id"] = info.FlowID
	}
	if info.RunID != "" {
		payload["run_id"] = info.RunID
	}
	if info.TaskID != "" {
		payload["task_id"] = info.TaskID
	}
	if info.Symbol != "" {
		payload["symbol"] = info.Symbol
	}

	for key, value := range normalizeFields(fields) {
		payload[key] = value
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("{\"level\":\"error\",\"event\":\"log_marshal_failed\",\"error\":%q}", err.Error())
		return
	}
	logger.Print(string(raw))
}

// LogRunStart records the beginning of a backtest run: strategy name and
// the resolved parameters it was constructed with.
func LogRunStart(ctx context.Context, strategyName string, params map[string]any) {
	LogEvent(ctx, "info", "run_start", map[string]any{
		"strategy": strategyName,
		"params":   params,
	})
}

// LogRunEnd records the completion of a backtest run.
func LogRunEnd(ctx context.Context, duration time.Duration, barCount, orderCount, fillCount int, err error) {
	fields := map[string]any{
		"duration_ms": duration.Milliseconds(),
		"bar_count":   barCount,
		"order_count": orderCount,
		"fill_count":  fillCount,
		"success":     err == nil,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	LogEvent(ctx, "info", "run_end", fields)
}

// LogStrategyError records a fatal error raised by a strategy callback.
func LogStrategyError(ctx context.Context, phase string, err error) {
	LogEvent(ctx, "error", "strategy_error", map[string]any{
		"phase": phase,
		"error": err.Error(),
	})
}

// LogOrderRejected records a broker rejection of a strategy-submitted order.
func LogOrderRejected(ctx context.Context, orderID, symbol string, err error) {
	LogEvent(ctx, "warn", "order_rejected", map[string]any{
		"order_id": orderID,
		"symbol":   symbol,
		"error":    err.Error(),
	})
}

func normalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		switch key {
		case "input", "payload":
			out[key] = RedactValue(value)
			continue
		}
		if err, ok := value.(error); ok {
			out[key] = err.Error()
			continue
		}
		out[key] = value
	}
	return out
}
