package purchase

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/bookstore"
	"github.com/noah-isme/toko-pricing/internal/obs"
)

// TaskClient is the subset of *asynq.Client used to publish purchases.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer implements bookstore.Purchaser by publishing one task per call.
// Enqueue failures are logged and counted, never returned to the pricer.
type Enqueuer struct {
	Client   TaskClient
	Queue    string
	MaxRetry int
	Logger   zerolog.Logger
	Metrics  *obs.PricingMetrics
}

var _ bookstore.Purchaser = Enqueuer{}

// BuyBook publishes the purchase, including zero-copy purchases.
func (e Enqueuer) BuyBook(ctx context.Context, book bookstore.Book, qty int) {
	err := e.enqueue(ctx, book, qty)
	e.Metrics.ObservePurchase(err)
	if err != nil {
		e.Logger.Error().Err(err).
			Str("isbn", book.ISBN).
			Int("quantity", qty).
			Msg("enqueue purchase")
		return
	}
	e.Logger.Debug().Str("isbn", book.ISBN).Int("quantity", qty).Msg("purchase enqueued")
}

func (e Enqueuer) enqueue(ctx context.Context, book bookstore.Book, qty int) error {
	if e.Client == nil {
		return errNotConfigured
	}
	opts := []asynq.Option{}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	if e.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(e.MaxRetry))
	}
	task, err := NewBuyBookTask(book, qty, opts...)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	return err
}
