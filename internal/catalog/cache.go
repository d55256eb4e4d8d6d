package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
)

// CachedCatalog is a read-through Redis cache in front of another catalog.
// Only successful lookups are cached; misses always reach Next.
type CachedCatalog struct {
	Next   bookstore.Catalog
	R      *redis.Client
	TTL    time.Duration
	Prefix string
}

func (c CachedCatalog) key(isbn string) string {
	if c.Prefix == "" {
		return "catalog:book:" + isbn
	}
	return c.Prefix + ":catalog:book:" + isbn
}

// FindByISBN serves the record from Redis when present, otherwise from Next.
// Redis failures degrade to a direct lookup.
func (c CachedCatalog) FindByISBN(ctx context.Context, isbn string) (bookstore.Book, error) {
	if c.Next == nil {
		return bookstore.Book{}, errors.New("catalog cache: next catalog not configured")
	}
	if c.R == nil || c.TTL <= 0 {
		return c.Next.FindByISBN(ctx, isbn)
	}
	if data, err := c.R.Get(ctx, c.key(isbn)).Bytes(); err == nil {
		var b bookstore.Book
		if json.Unmarshal(data, &b) == nil {
			return b, nil
		}
	}
	b, err := c.Next.FindByISBN(ctx, isbn)
	if err != nil {
		return bookstore.Book{}, err
	}
	if data, err := json.Marshal(b); err == nil {
		_ = c.R.Set(ctx, c.key(isbn), data, c.TTL).Err()
	}
	return b, nil
}

// Invalidate drops the cached record so the next lookup sees fresh stock.
func (c CachedCatalog) Invalidate(ctx context.Context, isbn string) error {
	if c.R == nil {
		return nil
	}
	return c.R.Del(ctx, c.key(isbn)).Err()
}
