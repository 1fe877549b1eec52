package strategy

// builtin is the process-wide registry of reference strategies, built once
// at package initialisation.
var builtin = newBuiltin()

// Builtin returns the process-wide Registry pre-populated with the
// reference strategies shipped by this repo. Callers needing a custom set
// build their own Registry and Register only what they want.
func Builtin() *Registry {
	return builtin
}

func newBuiltin() *Registry {
	r := NewRegistry()
	_ = r.Register("ma_crossover", NewMACrossoverFactory, Metadata{
		Name:        "MA Crossover",
		Description: "Buys on a bullish fast/slow moving-average cross, sells an existing long on a bearish cross.",
	})
	_ = r.Register("risk_managed_ma_crossover", NewRiskManagedMACrossoverFactory, Metadata{
		Name:        "Risk-Managed MA Crossover",
		Description: "MA crossover sized by risk budget and stop distance instead of a fixed quantity.",
	})
	_ = r.Register("buy_and_hold", NewBuyAndHoldFactory, Metadata{
		Name:        "Buy and Hold",
		Description: "Buys a fixed quantity of each symbol on its first bar and holds.",
	})
	return r
}
