package broker

import (
	"fmt"
	"sync"

	"backtestlab/internal/domain"
	"backtestlab/internal/execution"
)

// Paper wraps Default with a fixed per-order bar delay before it becomes
// eligible for matching, modeling order-routing latency.
type Paper struct {
	mu      sync.Mutex
	inner   *Default
	delay   int
	waiting map[string]int // order id -> bars remaining before eligible
}

// NewPaper constructs a Paper broker with a non-negative bar delay.
func NewPaper(resolver execution.Resolver, delayBars int) (*Paper, error) {
	if delayBars < 0 {
		return nil, fmt.Errorf("broker.NewPaper: delay_bars %d must be >= 0", delayBars)
	}
	inner, err := New(resolver)
	if err != nil {
		return nil, err
	}
	return &Paper{inner: inner, delay: delayBars, waiting: make(map[string]int)}, nil
}

func (p *Paper) Submit(order domain.Order) error {
	if err := p.inner.Submit(order); err != nil {
		return err
	}
	p.mu.Lock()
	p.waiting[order.ID] = p.delay
	p.mu.Unlock()
	return nil
}

// ProcessBar walks every pending order on this bar's symbol: an order whose
// delay counter is already zero is matched against the bar, and any other
// has its counter decremented and stays pending for this bar, regardless
// of whether it could have matched against this bar's prices.
func (p *Paper) ProcessBar(bar domain.Bar) ([]domain.Fill, error) {
	p.mu.Lock()
	eligible := make(map[string]bool)
	for _, order := range p.inner.ListPending(bar.Symbol) {
		remaining, ok := p.waiting[order.ID]
		if !ok {
			continue
		}
		if remaining <= 0 {
			eligible[order.ID] = true
			continue
		}
		p.waiting[order.ID] = remaining - 1
	}
	p.mu.Unlock()

	p.inner.mu.Lock()
	fills, err := p.inner.processBarLocked(bar, eligible)
	p.inner.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for _, f := range fills {
		delete(p.waiting, f.OrderID)
	}
	p.mu.Unlock()
	return fills, nil
}

func (p *Paper) Cancel(orderID string) error {
	if err := p.inner.Cancel(orderID); err != nil {
		return err
	}
	p.mu.Lock()
	delete(p.waiting, orderID)
	p.mu.Unlock()
	return nil
}

func (p *Paper) Get(orderID string) (domain.Order, bool) {
	return p.inner.Get(orderID)
}

func (p *Paper) ListPending(symbol string) []domain.Order {
	return p.inner.ListPending(symbol)
}
