package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/cart"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

func TestFlatPerItemIgnoresItemContents(t *testing.T) {
	rule := pricing.FlatPerItem{UnitPrice: 2.5}
	plain := cart.NewList(itemsOf(4)...)
	named := cart.NewList(
		cart.NewItem("A", "Dune"),
		cart.NewItem("B", "Emma"),
		cart.NewItem("C", "Ulysses"),
		cart.NewItem("D", "Beloved"),
	)

	a, err := rule.PriceToAggregate(plain)
	require.NoError(t, err)
	b, err := rule.PriceToAggregate(named)
	require.NoError(t, err)
	require.InDelta(t, 10.0, a, 1e-9)
	require.Equal(t, a, b)
}

func TestBuyNGetOneFree(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		price float64
		count int
		want  float64
	}{
		{name: "buy 3 get 1 with 5 items", n: 3, price: 1.0, count: 5, want: 4.0},
		{name: "buy 2 get 1 with 3 items", n: 2, price: 2.0, count: 3, want: 4.0},
		{name: "below threshold", n: 3, price: 1.0, count: 3, want: 3.0},
		{name: "two free groups", n: 1, price: 1.0, count: 4, want: 2.0},
		{name: "zero threshold disables promotion", n: 0, price: 1.5, count: 4, want: 6.0},
		{name: "negative threshold disables promotion", n: -2, price: 1.0, count: 3, want: 3.0},
		{name: "empty cart", n: 3, price: 9.0, count: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := pricing.BuyNGetOneFree{N: tc.n, UnitPrice: tc.price}
			got, err := rule.PriceToAggregate(cart.NewList(itemsOf(tc.count)...))
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
