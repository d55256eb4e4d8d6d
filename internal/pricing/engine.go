package pricing

import "github.com/noah-isme/toko-pricing/internal/cart"

// Engine totals a cart by summing the contribution of every rule.
type Engine struct {
	cart  cart.Cart
	rules []PriceRule
}

// NewEngine binds a cart to an ordered set of rules. The rule list is
// copied so later changes by the caller do not leak in.
func NewEngine(c cart.Cart, rules ...PriceRule) *Engine {
	return &Engine{cart: c, rules: append([]PriceRule(nil), rules...)}
}

// AddToCart delegates to the underlying cart.
func (e *Engine) AddToCart(item cart.Item) {
	e.cart.Add(item)
}

// Rules reports how many rules the engine evaluates.
func (e *Engine) Rules() int {
	return len(e.rules)
}

// Calculate evaluates every rule in order against the cart's current items
// and returns the sum. With no rules the cart is never read. The first rule
// error stops evaluation and is returned as is.
func (e *Engine) Calculate() (float64, error) {
	if len(e.rules) == 0 {
		return 0, nil
	}
	var total float64
	for _, rule := range e.rules {
		amount, err := rule.PriceToAggregate(e.cart.Items())
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}
