package pricing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/cart"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/obs"
)

// CartStore loads and saves carts between requests.
type CartStore interface {
	Create(ctx context.Context) (string, error)
	Load(ctx context.Context, id string) (*cart.Memory, error)
	Save(ctx context.Context, id string, c cart.Cart) error
}

// Locker serialises concurrent updates of the same cart.
type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error
}

// Handler exposes the cart pricer over HTTP.
type Handler struct {
	Carts   CartStore
	Rules   []PriceRule
	Metrics *obs.PricingMetrics
	Logger  zerolog.Logger
	// Locks is optional; without it concurrent adds to one cart may race.
	Locks   Locker
	LockTTL time.Duration
}

type addItemRequest struct {
	SKU   string `json:"sku" validate:"required,max=64"`
	Title string `json:"title" validate:"max=200"`
}

type cartTotal struct {
	ID    string  `json:"id"`
	Items int     `json:"items"`
	Total float64 `json:"total"`
}

// Create opens an empty cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.Carts.Create(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]string{"id": id}})
}

// AddItem appends an item to the cart and returns the new total.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	if err := common.DecodeJSON(r, &body); err != nil {
		common.WriteError(w, err)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var (
		c      *cart.Memory
		engine *Engine
	)
	err := h.withCartLock(r.Context(), id, func(ctx context.Context) error {
		var err error
		if c, err = h.Carts.Load(ctx, id); err != nil {
			return err
		}
		engine = NewEngine(c, h.Rules...)
		engine.AddToCart(cart.NewItem(body.SKU, body.Title))
		return h.Carts.Save(ctx, id, c)
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondTotal(w, id, c, engine)
}

func (h *Handler) withCartLock(ctx context.Context, id string, fn func(context.Context) error) error {
	if h.Locks == nil {
		return fn(ctx)
	}
	return h.Locks.WithLock(ctx, "cart:"+id, h.LockTTL, fn)
}

// Total prices the cart with the configured rules.
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	c, err := h.Carts.Load(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondTotal(w, id, c, NewEngine(c, h.Rules...))
}

func (h *Handler) respondTotal(w http.ResponseWriter, id string, c cart.Cart, engine *Engine) {
	total, err := engine.Calculate()
	h.Metrics.ObserveCart(err)
	if err != nil {
		h.fail(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cartTotal{
		ID:    id,
		Items: c.Items().Len(),
		Total: total,
	}})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrNotFound) {
		common.WriteError(w, common.NotFound("CART_NOT_FOUND", "cart not found", err))
		return
	}
	h.Logger.Error().Err(err).Msg("cart pricing failed")
	common.WriteError(w, err)
}
