package pricing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/cart"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

func TestCalculateSumsAllRules(t *testing.T) {
	list := cart.NewList(itemsOf(2)...)
	c := &mockCart{}
	c.On("Items").Return(list)

	r1 := &mockRule{}
	r2 := &mockRule{}
	r1.On("PriceToAggregate", list).Return(12.5, nil).Once()
	r2.On("PriceToAggregate", list).Return(7.5, nil).Once()

	total, err := pricing.NewEngine(c, r1, r2).Calculate()
	require.NoError(t, err)
	require.InDelta(t, 20.0, total, 1e-9)

	r1.AssertExpectations(t)
	r2.AssertExpectations(t)
	c.AssertNumberOfCalls(t, "Items", 2)
}

func TestCalculateWithoutRulesNeverReadsCart(t *testing.T) {
	c := &mockCart{}

	total, err := pricing.NewEngine(c).Calculate()
	require.NoError(t, err)
	require.Zero(t, total)
	c.AssertNotCalled(t, "Items")
	c.AssertExpectations(t)
}

func TestCalculateHandsEveryRuleTheSameList(t *testing.T) {
	c := cart.NewMemory(itemsOf(1)...)
	var seen []*cart.List
	capture := func(amount float64) pricing.RuleFunc {
		return func(items *cart.List) (float64, error) {
			seen = append(seen, items)
			return amount, nil
		}
	}

	total, err := pricing.NewEngine(c, capture(1), capture(2), capture(3)).Calculate()
	require.NoError(t, err)
	require.InDelta(t, 6.0, total, 1e-9)
	require.Len(t, seen, 3)
	for _, l := range seen {
		require.Same(t, c.Items(), l)
	}
}

func TestCalculatePreservesRuleOrder(t *testing.T) {
	var calls []string
	named := func(name string) pricing.RuleFunc {
		return func(*cart.List) (float64, error) {
			calls = append(calls, name)
			return 0, nil
		}
	}

	_, err := pricing.NewEngine(cart.NewMemory(), named("a"), named("b"), named("c")).Calculate()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestCalculateStopsAtFirstRuleError(t *testing.T) {
	boom := errors.New("rule exploded")
	list := cart.NewList(itemsOf(3)...)
	c := &mockCart{}
	c.On("Items").Return(list)

	ok := &mockRule{}
	ok.On("PriceToAggregate", list).Return(4.0, nil)
	failing := &mockRule{}
	failing.On("PriceToAggregate", list).Return(0.0, boom)
	never := &mockRule{}

	total, err := pricing.NewEngine(c, ok, failing, never).Calculate()
	require.Same(t, boom, err)
	require.Zero(t, total)
	never.AssertNotCalled(t, "PriceToAggregate", mock.Anything)
}

func TestAddToCartDelegates(t *testing.T) {
	c := &mockCart{}
	item := cart.NewItem("SKU", "Book")
	c.On("Add", item).Return().Once()

	pricing.NewEngine(c).AddToCart(item)

	c.AssertExpectations(t)
	c.AssertNotCalled(t, "Items")
}

func TestNewEngineCopiesRules(t *testing.T) {
	rules := []pricing.PriceRule{pricing.FlatPerItem{UnitPrice: 1}}
	engine := pricing.NewEngine(cart.NewMemory(itemsOf(2)...), rules...)
	rules[0] = pricing.FlatPerItem{UnitPrice: 100}

	total, err := engine.Calculate()
	require.NoError(t, err)
	require.InDelta(t, 2.0, total, 1e-9)
	require.Equal(t, 1, engine.Rules())
}

func TestEngineWithConcreteRules(t *testing.T) {
	t.Run("rules compose over the current cart", func(t *testing.T) {
		c := cart.NewMemory(itemsOf(5)...)
		engine := pricing.NewEngine(c,
			pricing.FlatPerItem{UnitPrice: 2.0},
			pricing.BuyNGetOneFree{N: 3, UnitPrice: 1.0},
		)
		total, err := engine.Calculate()
		require.NoError(t, err)
		require.InDelta(t, 14.0, total, 1e-9)
		require.Equal(t, 5, c.Items().Len())
	})

	t.Run("added items affect the next calculation", func(t *testing.T) {
		c := cart.NewMemory()
		engine := pricing.NewEngine(c, pricing.FlatPerItem{UnitPrice: 3.0})

		total, err := engine.Calculate()
		require.NoError(t, err)
		require.Zero(t, total)

		engine.AddToCart(cart.NewItem("", ""))
		engine.AddToCart(cart.NewItem("", ""))

		require.Equal(t, 2, c.Items().Len())
		total, err = engine.Calculate()
		require.NoError(t, err)
		require.InDelta(t, 6.0, total, 1e-9)
	})

	t.Run("empty rule set ignores items", func(t *testing.T) {
		total, err := pricing.NewEngine(cart.NewMemory(itemsOf(2)...)).Calculate()
		require.NoError(t, err)
		require.Zero(t, total)
	})

	t.Run("multiple rules all contribute", func(t *testing.T) {
		engine := pricing.NewEngine(cart.NewMemory(itemsOf(3)...),
			pricing.FlatPerItem{UnitPrice: 1.5},
			pricing.BuyNGetOneFree{N: 2, UnitPrice: 2.0},
		)
		total, err := engine.Calculate()
		require.NoError(t, err)
		require.InDelta(t, 8.5, total, 1e-9)
	})
}
