package domain

// Portfolio tracks cash, mark-to-market equity, and open positions by symbol.
type Portfolio struct {
	Cash      float64             `json:"cash"`
	Equity    float64             `json:"equity"`
	Positions map[string]Position `json:"positions"`
}

// NewPortfolio creates a Portfolio with the given starting cash and no
// open positions. Equity starts equal to cash.
func NewPortfolio(initialCash float64) *Portfolio {
	return &Portfolio{
		Cash:      initialCash,
		Equity:    initialCash,
		Positions: make(map[string]Position),
	}
}

// ApplyFill updates cash and the position for fill.Symbol per §3. A position
// that nets to zero quantity is removed from the map.
func (p *Portfolio) ApplyFill(fill Fill) {
	p.Cash += fill.CashDelta()

	pos, ok := p.Positions[fill.Symbol]
	if !ok {
		pos = Position{Symbol: fill.Symbol}
	}
	pos = applyFill(pos, fill.SignedQuantity(), fill.Price)

	if pos.Quantity == 0 {
		delete(p.Positions, fill.Symbol)
		return
	}
	p.Positions[fill.Symbol] = pos
}

// MarkToMarket recomputes Equity as cash plus the value of every open
// position at currentPrices. Positions for symbols missing from
// currentPrices are valued at their average entry price.
func (p *Portfolio) MarkToMarket(currentPrices map[string]float64) {
	equity := p.Cash
	for symbol, pos := range p.Positions {
		price, ok := currentPrices[symbol]
		if !ok {
			price = pos.AvgEntryPrice
		}
		equity += pos.Quantity * price
	}
	p.Equity = equity
}

// Exposure returns Σ|qty·avg_price| / equity, or 0 when equity is zero.
func (p *Portfolio) Exposure() float64 {
	if p.Equity == 0 {
		return 0
	}
	var gross float64
	for _, pos := range p.Positions {
		gross += absf(pos.Quantity * pos.AvgEntryPrice)
	}
	return gross / p.Equity
}
