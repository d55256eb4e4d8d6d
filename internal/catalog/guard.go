package catalog

import (
	"context"
	"errors"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
	"github.com/noah-isme/toko-pricing/internal/resilience"
)

// Guarded fails fast while the database behind Next is unhealthy. Catalog
// misses are answers, not failures, and never trip the breaker.
type Guarded struct {
	Next    bookstore.Catalog
	Breaker *resilience.Breaker
}

// FindByISBN delegates to Next through the breaker.
func (g Guarded) FindByISBN(ctx context.Context, isbn string) (bookstore.Book, error) {
	if g.Breaker == nil {
		return g.Next.FindByISBN(ctx, isbn)
	}
	var b bookstore.Book
	err := g.Breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		b, err = g.Next.FindByISBN(ctx, isbn)
		return err
	}, isOutage)
	if err != nil {
		return bookstore.Book{}, err
	}
	return b, nil
}

func isOutage(err error) bool {
	return !errors.Is(err, bookstore.ErrBookNotFound) && !errors.Is(err, context.Canceled)
}
