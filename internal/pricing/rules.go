package pricing

import "github.com/noah-isme/toko-pricing/internal/cart"

// PriceRule computes a non-negative contribution to a cart total.
type PriceRule interface {
	PriceToAggregate(items *cart.List) (float64, error)
}

// RuleFunc adapts a plain function to PriceRule.
type RuleFunc func(items *cart.List) (float64, error)

// PriceToAggregate calls f(items).
func (f RuleFunc) PriceToAggregate(items *cart.List) (float64, error) {
	return f(items)
}

// FlatPerItem charges UnitPrice for every item in the cart.
type FlatPerItem struct {
	UnitPrice float64
}

// PriceToAggregate returns count * UnitPrice.
func (r FlatPerItem) PriceToAggregate(items *cart.List) (float64, error) {
	return float64(items.Len()) * r.UnitPrice, nil
}

// BuyNGetOneFree gives one item away for every N+1 items in the cart.
// A non-positive N disables the promotion.
type BuyNGetOneFree struct {
	N         int
	UnitPrice float64
}

// PriceToAggregate charges only the items that are not free.
func (r BuyNGetOneFree) PriceToAggregate(items *cart.List) (float64, error) {
	count := items.Len()
	free := 0
	if r.N > 0 {
		free = count / (r.N + 1)
	}
	paid := count - free
	return float64(paid) * r.UnitPrice, nil
}
