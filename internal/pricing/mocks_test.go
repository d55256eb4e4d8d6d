package pricing_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/noah-isme/toko-pricing/internal/cart"
)

type mockCart struct {
	mock.Mock
}

func (m *mockCart) Add(item cart.Item) {
	m.Called(item)
}

func (m *mockCart) Items() *cart.List {
	args := m.Called()
	list, _ := args.Get(0).(*cart.List)
	return list
}

type mockRule struct {
	mock.Mock
}

func (m *mockRule) PriceToAggregate(items *cart.List) (float64, error) {
	args := m.Called(items)
	return args.Get(0).(float64), args.Error(1)
}

func itemsOf(n int) []cart.Item {
	items := make([]cart.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, cart.NewItem("", ""))
	}
	return items
}
