package purchase

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
)

// TypeBuyBook is the asynq task type carrying one purchased order line.
const TypeBuyBook = "bookstore:buy_book"

// BuyBookPayload is the task body.
type BuyBookPayload struct {
	ISBN     string  `json:"isbn"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// NewBuyBookTask encodes a purchase of qty copies of book.
func NewBuyBookTask(book bookstore.Book, qty int, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(BuyBookPayload{ISBN: book.ISBN, Price: book.Price, Quantity: qty})
	if err != nil {
		return nil, fmt.Errorf("encode buy book payload: %w", err)
	}
	return asynq.NewTask(TypeBuyBook, data, opts...), nil
}

func decodeBuyBook(t *asynq.Task) (BuyBookPayload, error) {
	var p BuyBookPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return BuyBookPayload{}, fmt.Errorf("decode buy book payload: %w", err)
	}
	return p, nil
}
