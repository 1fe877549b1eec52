// Package broker maintains order admission and per-bar matching against an
// execution resolver, producing fills.
package broker

import (
	"fmt"
	"sync"

	"backtestlab/internal/domain"
	"backtestlab/internal/execution"
)

// Broker is the contract the simulator drives each bar.
type Broker interface {
	Submit(order domain.Order) error
	ProcessBar(bar domain.Bar) ([]domain.Fill, error)
	Cancel(orderID string) error
	Get(orderID string) (domain.Order, bool)
	ListPending(symbol string) []domain.Order
}

// Default is the base broker: immediate eligibility for matching once an
// order is pending, no artificial delay.
type Default struct {
	mu         sync.Mutex
	resolver   execution.Resolver
	orders     map[string]domain.Order
	pending    []string // order ids, insertion order
	fills      []domain.Fill
}

// New constructs a Default broker against the given resolver.
func New(resolver execution.Resolver) (*Default, error) {
	if resolver == nil {
		return nil, fmt.Errorf("broker.New: resolver must not be nil")
	}
	return &Default{
		resolver: resolver,
		orders:   make(map[string]domain.Order),
	}, nil
}

// Submit admits an order. Duplicate ids and invalid orders are rejected;
// the order's status becomes REJECTED but Submit itself still returns an
// error so the caller can log it.
func (b *Default) Submit(order domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[order.ID]; exists {
		order.Status = domain.Rejected
		b.orders[order.ID] = order
		return fmt.Errorf("broker.Submit: duplicate order id %q", order.ID)
	}
	if order.Quantity <= 0 {
		order.Status = domain.Rejected
		b.orders[order.ID] = order
		return fmt.Errorf("broker.Submit: order %q quantity must be > 0", order.ID)
	}
	if order.Type == domain.Limit && order.LimitPrice <= 0 {
		order.Status = domain.Rejected
		b.orders[order.ID] = order
		return fmt.Errorf("broker.Submit: limit order %q requires limit_price > 0", order.ID)
	}

	order.Status = domain.Pending
	b.orders[order.ID] = order
	b.pending = append(b.pending, order.ID)
	return nil
}

// ProcessBar matches pending orders for bar.Symbol against the resolver, in
// insertion order.
func (b *Default) ProcessBar(bar domain.Bar) ([]domain.Fill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processBarLocked(bar, nil)
}

// processBarLocked matches pending orders for bar.Symbol. If eligible is
// non-nil, only order ids present in it are considered for matching; all
// other pending orders on the symbol are left untouched. Callers must hold
// b.mu.
func (b *Default) processBarLocked(bar domain.Bar, eligible map[string]bool) ([]domain.Fill, error) {
	var fills []domain.Fill
	remaining := b.pending[:0:0]

	for _, id := range b.pending {
		order := b.orders[id]
		if order.Symbol != bar.Symbol {
			remaining = append(remaining, id)
			continue
		}
		if eligible != nil && !eligible[id] {
			remaining = append(remaining, id)
			continue
		}
		fill, ok, err := b.resolver.Resolve(bar, order)
		if err != nil {
			return nil, fmt.Errorf("broker.ProcessBar: %w", err)
		}
		if !ok {
			remaining = append(remaining, id)
			continue
		}
		order.Status = domain.Filled
		b.orders[id] = order
		b.fills = append(b.fills, fill)
		fills = append(fills, fill)
	}
	b.pending = remaining
	return fills, nil
}

// Cancel removes a pending order, setting its status to CANCELLED. Calling
// Cancel on an already-cancelled or non-pending order fails.
func (b *Default) Cancel(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, id := range b.pending {
		if id != orderID {
			continue
		}
		order := b.orders[id]
		order.Status = domain.Cancelled
		b.orders[id] = order
		b.pending = append(b.pending[:i], b.pending[i+1:]...)
		return nil
	}
	return fmt.Errorf("broker.Cancel: order %q is not pending", orderID)
}

// Get returns an order by id.
func (b *Default) Get(orderID string) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[orderID]
	return o, ok
}

// ListPending returns pending orders, optionally filtered by symbol (empty
// string means all symbols), in insertion order.
func (b *Default) ListPending(symbol string) []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Order, 0, len(b.pending))
	for _, id := range b.pending {
		o := b.orders[id]
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		out = append(out, o)
	}
	return out
}
