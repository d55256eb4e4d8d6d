package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/migrations"
	"github.com/noah-isme/toko-pricing/internal/obs"
)

type seedBook struct {
	book  bookstore.Book
	title string
}

var books = []seedBook{
	{bookstore.Book{ISBN: "9780134190440", Price: 39.99, Quantity: 12}, "The Go Programming Language"},
	{bookstore.Book{ISBN: "9781491941195", Price: 44.50, Quantity: 3}, "Concurrency in Go"},
	{bookstore.Book{ISBN: "9781617291784", Price: 36.00, Quantity: 0}, "Go in Action"},
	{bookstore.Book{ISBN: "9780201633610", Price: 54.95, Quantity: 7}, "Design Patterns"},
	{bookstore.Book{ISBN: "9780132350884", Price: 42.00, Quantity: 20}, "Clean Code"},
	{bookstore.Book{ISBN: "9781449373320", Price: 59.99, Quantity: 2}, "Designing Data-Intensive Applications"},
}

func main() {
	_ = godotenv.Load()
	logger := obs.NewLogger("console", "info")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	if err := migrations.Up(dbURL); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	store := catalog.Store{DB: pool}
	for _, b := range books {
		if err := store.Upsert(ctx, b.book, b.title); err != nil {
			logger.Fatal().Err(err).Str("isbn", b.book.ISBN).Msg("seed book")
		}
		logger.Info().Str("isbn", b.book.ISBN).Int("quantity", b.book.Quantity).Msg("seeded")
	}
	logger.Info().Int("books", len(books)).Msg("seeding completed")
}
