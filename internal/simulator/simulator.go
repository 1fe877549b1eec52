// Package simulator orchestrates the per-bar backtest loop: clock feeds
// bars, the broker matches fills, the portfolio manager applies them, and
// the strategy reacts by submitting new orders.
package simulator

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"backtestlab/internal/broker"
	"backtestlab/internal/clock"
	"backtestlab/internal/observability"
	"backtestlab/internal/portfolio"
	"backtestlab/internal/recorder"
	"backtestlab/internal/strategy"
)

// markToMarketEvery is K in §4.7: the simulator additionally marks the
// portfolio to market every Kth bar, independent of fill activity.
const markToMarketEvery = 100

// Simulator drives one backtest run. Not safe for concurrent use; each run
// owns its own Simulator, broker, clock, manager, and strategy instance.
type Simulator struct {
	strategy strategy.Strategy
	broker   broker.Broker
	clock    clock.Clock
	manager  *portfolio.Manager
	recorder recorder.Recorder
	metrics  *observability.BacktestMetrics

	runID   string
	stopped atomic.Bool

	state *runState
}

// New constructs a Simulator. recorder may be nil, in which case
// observations are simply dropped.
func New(strat strategy.Strategy, br broker.Broker, src clock.Clock, initialCash float64, rec recorder.Recorder) (*Simulator, error) {
	if strat == nil {
		return nil, fmt.Errorf("simulator.New: strategy must not be nil")
	}
	if br == nil {
		return nil, fmt.Errorf("simulator.New: broker must not be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("simulator.New: clock must not be nil")
	}
	manager := portfolio.New(initialCash)
	return &Simulator{
		strategy: strat,
		broker:   br,
		clock:    src,
		manager:  manager,
		recorder: rec,
		runID:    observability.NewRunID(),
	}, nil
}

// Stop requests cooperative early termination; the flag is consulted
// between bars, so in-flight per-bar work always runs to completion.
func (s *Simulator) Stop() {
	s.stopped.Store(true)
}

// SetMetrics attaches a metrics set that Run records into as it executes.
// Optional: a nil (or never-set) metrics set means observations are
// simply dropped, mirroring how a nil recorder is handled.
func (s *Simulator) SetMetrics(m *observability.BacktestMetrics) {
	s.metrics = m
}

// LastResult snapshots the portfolio state the simulator has accumulated so
// far, usable after a fatal OnBar error to recover partial results. Its
// BarCount, OrderCount and FillCount are always zero.
func (s *Simulator) LastResult() Result {
	return s.snapshot()
}

// Run executes the loop described in §4.7 over universe until the clock
// is exhausted, the caller calls Stop, or ctx is cancelled between bars.
func (s *Simulator) Run(ctx context.Context, universe []string, params map[string]any) (Result, error) {
	s.state = newRunState(s.runID, s.manager)

	if err := s.strategy.OnStart(universe, params); err != nil {
		return Result{}, fmt.Errorf("simulator.Run: strategy OnStart: %w", err)
	}

	if s.recorder != nil {
		s.recorder.OnStart(recorder.RunMeta{RunID: s.runID, Params: params, StartedAt: time.Now().UTC()})
	}
	observability.LogRunStart(ctx, "", params)
	runStarted := time.Now()

	var barCount, orderCount, fillCount int
	var lastTimestamp = zeroTime

	for {
		if s.stopped.Load() {
			break
		}
		select {
		case <-ctx.Done():
			observability.LogEvent(ctx, "warn", "simulator_cancelled", map[string]any{"run_id": s.runID, "error": ctx.Err()})
			goto exhausted
		default:
		}

		bar, ok := s.clock.Tick()
		if !ok {
			break
		}
		barCount++
		lastTimestamp = bar.Timestamp
		s.state.prices[bar.Symbol] = bar.Close

		if s.recorder != nil {
			s.recorder.OnBar(bar)
		}

		fills, err := s.broker.ProcessBar(bar)
		if err != nil {
			return s.snapshotWith(barCount, orderCount, fillCount), fmt.Errorf("simulator.Run: broker ProcessBar: %w", err)
		}
		for _, fill := range fills {
			fillCount++
			if s.recorder != nil {
				s.recorder.OnFill(fill)
			}
			if s.metrics != nil {
				s.metrics.FillsExecuted.Inc("symbol", fill.Symbol, "side", string(fill.Side))
			}
			observability.RecordFillExecuted(ctx, fill.Symbol, string(fill.Side), fill.Quantity, fill.Price, fill.Fee)
			s.manager.ApplyFill(fill, s.state.prices)
			if s.recorder != nil {
				s.recorder.OnEquityUpdate(s.manager.EquityCurve()[len(s.manager.EquityCurve())-1])
			}
		}

		strategyStarted := time.Now()
		orders, err := s.strategy.OnBar(bar, s.state)
		if s.metrics != nil {
			s.metrics.StrategyLatency.ObserveDuration(time.Since(strategyStarted))
		}
		if err != nil {
			return s.snapshotWith(barCount, orderCount, fillCount), fmt.Errorf("simulator.Run: strategy OnBar: %w", err)
		}
		for _, order := range orders {
			if err := s.broker.Submit(order); err != nil {
				observability.LogOrderRejected(ctx, order.ID, order.Symbol, err)
				if s.metrics != nil {
					s.metrics.OrdersSubmitted.Inc("symbol", order.Symbol, "accepted", "false")
					s.metrics.RejectedOrders.Inc("reason", rejectionReason(err))
				}
				observability.RecordOrderSubmitted(ctx, order.ID, order.Symbol, false)
				continue
			}
			orderCount++
			if s.recorder != nil {
				s.recorder.OnOrder(order)
			}
			if s.metrics != nil {
				s.metrics.OrdersSubmitted.Inc("symbol", order.Symbol, "accepted", "true")
			}
			observability.RecordOrderSubmitted(ctx, order.ID, order.Symbol, true)
		}

		if barCount%markToMarketEvery == 0 {
			s.manager.Portfolio().MarkToMarket(s.state.prices)
			pt := equityPointAt(bar.Timestamp, s.manager)
			if s.recorder != nil {
				s.recorder.OnEquityUpdate(pt)
			}
			if s.metrics != nil {
				s.metrics.Equity.Set(pt.Equity)
				s.metrics.OpenPositions.Set(float64(len(s.manager.Portfolio().Positions)))
			}
		}
	}

exhausted:
	s.manager.CloseAll(lastTimestamp, s.state.prices)

	var endErr error
	if err := s.strategy.OnEnd(s.state); err != nil {
		endErr = err
		observability.LogStrategyError(ctx, "OnEnd", err)
	}

	result := s.snapshotWith(barCount, orderCount, fillCount)
	runDuration := time.Since(runStarted)
	observability.LogRunEnd(ctx, runDuration, barCount, orderCount, fillCount, endErr)
	observability.RecordRunCompleted(ctx, runDuration, barCount, result.FinalEquity, endErr)
	if s.metrics != nil {
		s.metrics.RunDuration.ObserveDuration(runDuration)
		s.metrics.Equity.Set(result.FinalEquity)
		s.metrics.OpenPositions.Set(float64(len(result.OpenTrades)))
	}
	if s.recorder != nil {
		s.recorder.OnEnd(recorder.FinalState{
			EndedAt:     time.Now().UTC(),
			FinalEquity: result.FinalEquity,
			BarCount:    barCount,
			OrderCount:  orderCount,
			FillCount:   fillCount,
		})
	}
	return result, nil
}

// rejectionReason maps a broker.Submit error to a low-cardinality label
// value, since the error text itself embeds the order id.
func rejectionReason(err error) string {
	switch {
	case strings.Contains(err.Error(), "duplicate order id"):
		return "duplicate_order_id"
	case strings.Contains(err.Error(), "quantity"):
		return "invalid_quantity"
	case strings.Contains(err.Error(), "limit_price"):
		return "invalid_limit_price"
	default:
		return "other"
	}
}

func (s *Simulator) snapshot() Result {
	return s.snapshotWith(0, 0, 0)
}

func (s *Simulator) snapshotWith(barCount, orderCount, fillCount int) Result {
	openTrades := s.manager.OpenTrades()
	curve := s.manager.EquityCurve()
	finalEquity := s.manager.Portfolio().Equity
	if len(curve) > 0 {
		finalEquity = curve[len(curve)-1].Equity
	}
	return Result{
		RunID:       s.runID,
		InitialCash: s.manager.Portfolio().Cash,
		FinalEquity: finalEquity,
		EquityCurve: curve,
		Trades:      s.manager.Trades(),
		OpenTrades:  openTrades,
		BarCount:    barCount,
		OrderCount:  orderCount,
		FillCount:   fillCount,
	}
}
