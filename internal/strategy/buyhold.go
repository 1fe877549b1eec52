package strategy

import (
	"fmt"

	"backtestlab/internal/domain"
)

// BuyAndHold submits a single market buy per symbol on the first bar it
// sees for that symbol, and nothing thereafter.
type BuyAndHold struct {
	quantity float64
	bought   map[string]bool
}

// NewBuyAndHold validates quantity > 0.
func NewBuyAndHold(quantity float64) (*BuyAndHold, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("strategy.NewBuyAndHold: quantity %.8f must be > 0", quantity)
	}
	return &BuyAndHold{quantity: quantity, bought: make(map[string]bool)}, nil
}

// NewBuyAndHoldFactory adapts NewBuyAndHold to the Factory signature,
// reading quantity from params.
func NewBuyAndHoldFactory(params map[string]any) (Strategy, error) {
	qty, err := floatParam(params, "quantity", 1)
	if err != nil {
		return nil, err
	}
	return NewBuyAndHold(qty)
}

func (b *BuyAndHold) OnStart(_ []string, _ map[string]any) error {
	b.bought = make(map[string]bool)
	return nil
}

func (b *BuyAndHold) OnBar(bar domain.Bar, state State) ([]domain.Order, error) {
	if b.bought[bar.Symbol] {
		return nil, nil
	}
	b.bought[bar.Symbol] = true

	order, err := domain.NewOrder(state.NextOrderID(), bar.Timestamp, bar.Symbol, domain.Buy, b.quantity, domain.Market, 0)
	if err != nil {
		return nil, fmt.Errorf("strategy.BuyAndHold.OnBar: %w", err)
	}
	return []domain.Order{order}, nil
}

func (b *BuyAndHold) OnEnd(_ State) error {
	return nil
}
