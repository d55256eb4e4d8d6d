package bookstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when a catalog has no record for an ISBN.
	ErrBookNotFound = errors.New("book not found")
	// ErrInvalidQuantity is returned when an order line asks for a negative quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// NotFoundError identifies the ISBN that could not be resolved while
// pricing an order. It matches ErrBookNotFound with errors.Is.
type NotFoundError struct {
	ISBN string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book %q not found", e.ISBN)
}

// Unwrap exposes ErrBookNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrBookNotFound
}

// Book is a catalog record: its unit price and the quantity in stock.
type Book struct {
	ISBN     string  `json:"isbn"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Catalog resolves an ISBN to its catalog record.
type Catalog interface {
	FindByISBN(ctx context.Context, isbn string) (Book, error)
}

// Purchaser commits the purchase of qty copies of a book. It is fire and
// forget: implementations handle their own failures.
type Purchaser interface {
	BuyBook(ctx context.Context, book Book, qty int)
}

// Line is one entry of an order request.
type Line struct {
	ISBN     string `json:"isbn"`
	Quantity int    `json:"quantity"`
}

// Request maps ISBNs to requested quantities, remembering insertion order.
type Request struct {
	lines []Line
	index map[string]int
}

// NewRequest returns an empty request.
func NewRequest() *Request {
	return &Request{index: map[string]int{}}
}

// Set records qty for isbn. Setting an ISBN again replaces the quantity but
// keeps the position of the first insertion.
func (r *Request) Set(isbn string, qty int) *Request {
	if r.index == nil {
		r.index = map[string]int{}
	}
	if pos, ok := r.index[isbn]; ok {
		r.lines[pos].Quantity = qty
		return r
	}
	r.index[isbn] = len(r.lines)
	r.lines = append(r.lines, Line{ISBN: isbn, Quantity: qty})
	return r
}

// Quantity returns the requested quantity for isbn.
func (r *Request) Quantity(isbn string) (int, bool) {
	pos, ok := r.index[isbn]
	if !ok {
		return 0, false
	}
	return r.lines[pos].Quantity, true
}

// Len reports the number of distinct ISBNs.
func (r *Request) Len() int {
	return len(r.lines)
}

// Lines returns a copy of the entries in insertion order.
func (r *Request) Lines() []Line {
	return append([]Line(nil), r.lines...)
}

// PurchaseSummary is the outcome of pricing an order.
type PurchaseSummary struct {
	TotalPrice float64
	// Unavailable holds the shortfall per book; only positive shortfalls are present.
	Unavailable map[Book]int
}

func newSummary() *PurchaseSummary {
	return &PurchaseSummary{Unavailable: map[Book]int{}}
}

func (s *PurchaseSummary) addToTotalPrice(amount float64) {
	s.TotalPrice += amount
}

func (s *PurchaseSummary) addUnavailable(book Book, shortfall int) {
	s.Unavailable[book] = shortfall
}
