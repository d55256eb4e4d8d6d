package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/catalog"
)

var errNotConfigured = errors.New("purchase: task client not configured")

// Stock applies purchases to inventory.
type Stock interface {
	DecrementStock(ctx context.Context, isbn string, qty int) error
}

// Invalidator drops cached catalog records.
type Invalidator interface {
	Invalidate(ctx context.Context, isbn string) error
}

// Handler processes TypeBuyBook tasks on the worker.
type Handler struct {
	Stock  Stock
	Cache  Invalidator
	Logger zerolog.Logger
}

// Register binds the handler to mux.
func (h Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeBuyBook, h.ProcessTask)
}

// ProcessTask decrements stock for the purchased copies. Zero-copy
// purchases are acknowledged without touching inventory. Malformed payloads
// and oversold lines are not retried.
func (h Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if h.Stock == nil {
		return errors.New("purchase: stock not configured")
	}
	p, err := decodeBuyBook(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	log := h.Logger.With().Str("isbn", p.ISBN).Int("quantity", p.Quantity).Logger()
	if p.Quantity <= 0 {
		log.Debug().Msg("zero quantity purchase acknowledged")
		return nil
	}
	if err := h.Stock.DecrementStock(ctx, p.ISBN, p.Quantity); err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			log.Warn().Err(err).Msg("purchase exceeds stock")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, p.ISBN); err != nil {
			log.Warn().Err(err).Msg("invalidate catalog cache")
		}
	}
	log.Info().Msg("purchase applied")
	return nil
}
