package cart

import "github.com/google/uuid"

// Item is a single cart entry. Pricing rules may inspect it but the
// reference rules only look at how many items a cart holds.
type Item struct {
	ID    uuid.UUID `json:"id"`
	SKU   string    `json:"sku,omitempty"`
	Title string    `json:"title,omitempty"`
}

// NewItem returns an item with a fresh identifier.
func NewItem(sku, title string) Item {
	return Item{ID: uuid.New(), SKU: sku, Title: title}
}

// List is the live, ordered sequence of items held by a cart. A *List
// obtained from Cart.Items keeps reflecting items added afterwards.
type List struct {
	items []Item
}

// NewList builds a list seeded with the provided items.
func NewList(items ...Item) *List {
	l := &List{}
	l.items = append(l.items, items...)
	return l
}

// Len reports the number of items. A nil list is empty.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at position i.
func (l *List) At(i int) Item {
	return l.items[i]
}

// Slice exposes the backing slice without copying.
func (l *List) Slice() []Item {
	if l == nil {
		return nil
	}
	return l.items
}

func (l *List) append(item Item) {
	l.items = append(l.items, item)
}

// Cart is the storage collaborator the cart pricer delegates to.
type Cart interface {
	Add(item Item)
	Items() *List
}

// Memory is an in-process cart. Items returns the same list Add mutates.
type Memory struct {
	list *List
}

// NewMemory creates an empty cart, optionally seeded with items.
func NewMemory(items ...Item) *Memory {
	return &Memory{list: NewList(items...)}
}

// Add appends the item.
func (m *Memory) Add(item Item) {
	if m.list == nil {
		m.list = &List{}
	}
	m.list.append(item)
}

// Items returns the live item list.
func (m *Memory) Items() *List {
	if m.list == nil {
		m.list = &List{}
	}
	return m.list
}
