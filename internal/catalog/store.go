package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
)

// ErrInsufficientStock is returned when a stock decrement would go negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// DBTX is the subset of pgxpool.Pool used by Store.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the Postgres backed book catalog.
type Store struct {
	DB DBTX
}

const findBookSQL = `SELECT isbn, price::float8, quantity FROM books WHERE isbn = $1`

// FindByISBN loads a book by ISBN. A missing row is reported as
// bookstore.ErrBookNotFound.
func (s Store) FindByISBN(ctx context.Context, isbn string) (bookstore.Book, error) {
	if s.DB == nil {
		return bookstore.Book{}, errors.New("catalog store not configured")
	}
	ctx, span := otel.Tracer("catalog").Start(ctx, "catalog.FindByISBN")
	defer span.End()
	span.SetAttributes(attribute.String("book.isbn", isbn))

	var b bookstore.Book
	err := s.DB.QueryRow(ctx, findBookSQL, isbn).Scan(&b.ISBN, &b.Price, &b.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bookstore.Book{}, fmt.Errorf("isbn %q: %w", isbn, bookstore.ErrBookNotFound)
		}
		span.RecordError(err)
		return bookstore.Book{}, fmt.Errorf("query book: %w", err)
	}
	return b, nil
}

const upsertBookSQL = `INSERT INTO books (isbn, title, price, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (isbn) DO UPDATE SET title = EXCLUDED.title, price = EXCLUDED.price, quantity = EXCLUDED.quantity, updated_at = now()`

// Upsert inserts or replaces a catalog record.
func (s Store) Upsert(ctx context.Context, b bookstore.Book, title string) error {
	if s.DB == nil {
		return errors.New("catalog store not configured")
	}
	if b.Price < 0 || b.Quantity < 0 {
		return fmt.Errorf("isbn %q: negative price or quantity", b.ISBN)
	}
	if _, err := s.DB.Exec(ctx, upsertBookSQL, b.ISBN, title, b.Price, b.Quantity); err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

const decrementStockSQL = `UPDATE books SET quantity = quantity - $2, updated_at = now()
WHERE isbn = $1 AND quantity >= $2`

// DecrementStock removes qty copies from stock. It fails with
// ErrInsufficientStock rather than letting stock go negative.
func (s Store) DecrementStock(ctx context.Context, isbn string, qty int) error {
	if s.DB == nil {
		return errors.New("catalog store not configured")
	}
	if qty <= 0 {
		return nil
	}
	tag, err := s.DB.Exec(ctx, decrementStockSQL, isbn, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("isbn %q qty %d: %w", isbn, qty, ErrInsufficientStock)
	}
	return nil
}
