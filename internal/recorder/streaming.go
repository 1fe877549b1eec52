package recorder

import (
	"context"
	"sync"
	"time"

	"backtestlab/internal/domain"
	"backtestlab/internal/observability"
	"backtestlab/internal/resilience"
)

// Streaming forwards every call to an injected Sink, recording bars only
// when bar recording is enabled. Sink calls are wrapped by a circuit
// breaker so a misbehaving sink cannot stall the run; failures are logged
// and otherwise swallowed, since a recorder must never abort a backtest.
type Streaming struct {
	mu          sync.Mutex
	ctx         context.Context
	sink        Sink
	breaker     *resilience.CircuitBreaker
	recordBars  bool
	barCount    int
	orderCount  int
	fillCount   int
}

// NewStreaming constructs a Streaming recorder. ctx is used only to
// propagate run-scoped fields (run id, flow id) into failure logs.
func NewStreaming(ctx context.Context, sink Sink, recordBars bool) *Streaming {
	return &Streaming{
		ctx:        ctx,
		sink:       sink,
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultConfig("recorder-sink")),
		recordBars: recordBars,
	}
}

func (s *Streaming) write(kind string, record any) {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.sink.Write(kind, record)
	})
	if err != nil {
		observability.LogEvent(s.ctx, "warn", "recorder_sink_write_failed", map[string]any{
			"kind":  kind,
			"error": err,
		})
	}
}

func (s *Streaming) OnStart(meta RunMeta) {
	s.write("meta", meta)
}

func (s *Streaming) OnBar(bar domain.Bar) {
	if !s.recordBars {
		return
	}
	s.mu.Lock()
	s.barCount++
	s.mu.Unlock()
	s.write("bars", bar)
}

func (s *Streaming) OnOrder(order domain.Order) {
	s.mu.Lock()
	s.orderCount++
	s.mu.Unlock()
	s.write("orders", order)
}

func (s *Streaming) OnFill(fill domain.Fill) {
	s.mu.Lock()
	s.fillCount++
	s.mu.Unlock()
	s.write("fills", fill)
}

func (s *Streaming) OnEquityUpdate(pt domain.EquityPoint) {
	s.write("equity", pt)
}

func (s *Streaming) OnEnd(final FinalState) {
	s.write("final", final)
}

func (s *Streaming) OnEvent(kind string, data map[string]any) {
	s.write("events", Event{Kind: kind, At: time.Now().UTC(), Data: data})
}
