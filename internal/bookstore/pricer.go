package bookstore

import (
	"context"
	"errors"
	"fmt"
)

// Pricer prices order requests against catalog stock, charging only for
// copies that can be fulfilled and buying them line by line.
type Pricer struct {
	Catalog   Catalog
	Purchaser Purchaser
}

// PriceOrder prices req. A nil request yields a nil summary without
// touching any collaborator.
//
// Lines are handled in insertion order: each lookup is immediately followed
// by the purchase for that line, including purchases of zero copies. A line
// whose ISBN cannot be resolved aborts the whole call with a nil summary;
// purchases issued for earlier lines are not undone.
func (p *Pricer) PriceOrder(ctx context.Context, req *Request) (*PurchaseSummary, error) {
	if req == nil {
		return nil, nil
	}
	if p == nil || p.Catalog == nil || p.Purchaser == nil {
		return nil, errors.New("bookstore pricer not configured")
	}
	for _, line := range req.lines {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("isbn %q quantity %d: %w", line.ISBN, line.Quantity, ErrInvalidQuantity)
		}
	}

	summary := newSummary()
	for _, line := range req.lines {
		book, err := p.Catalog.FindByISBN(ctx, line.ISBN)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				return nil, &NotFoundError{ISBN: line.ISBN}
			}
			return nil, fmt.Errorf("find book %q: %w", line.ISBN, err)
		}
		available := max(book.Quantity, 0)
		fulfillable := min(line.Quantity, available)
		summary.addToTotalPrice(float64(fulfillable) * book.Price)
		p.Purchaser.BuyBook(ctx, book, fulfillable)
		if line.Quantity > available {
			summary.addUnavailable(book, line.Quantity-available)
		}
	}
	return summary, nil
}
