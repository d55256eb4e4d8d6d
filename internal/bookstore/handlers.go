package bookstore

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/obs"
)

// Handler exposes order quotes over HTTP.
type Handler struct {
	Pricer  *Pricer
	Metrics *obs.PricingMetrics
	Logger  zerolog.Logger
}

type quoteLine struct {
	ISBN     string `json:"isbn" validate:"required,max=32"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type quoteRequest struct {
	Lines []quoteLine `json:"lines" validate:"required,min=1,dive"`
}

type unavailableLine struct {
	ISBN      string  `json:"isbn"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
	Shortfall int     `json:"shortfall"`
}

type quoteResponse struct {
	TotalPrice  float64           `json:"totalPrice"`
	Unavailable []unavailableLine `json:"unavailable"`
}

// Quote prices the requested lines and buys what stock allows.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var body quoteRequest
	if err := common.DecodeJSON(r, &body); err != nil {
		common.WriteError(w, err)
		return
	}
	req := NewRequest()
	for _, line := range body.Lines {
		req.Set(line.ISBN, line.Quantity)
	}

	summary, err := h.Pricer.PriceOrder(r.Context(), req)
	if err != nil {
		h.Metrics.ObserveOrder(0, err)
		h.writeError(w, err)
		return
	}

	resp := quoteResponse{TotalPrice: summary.TotalPrice, Unavailable: []unavailableLine{}}
	shortfall := 0
	for _, line := range req.Lines() {
		for book, missing := range summary.Unavailable {
			if book.ISBN != line.ISBN {
				continue
			}
			resp.Unavailable = append(resp.Unavailable, unavailableLine{
				ISBN:      book.ISBN,
				Price:     book.Price,
				Available: max(book.Quantity, 0),
				Shortfall: missing,
			})
			shortfall += missing
		}
	}
	h.Metrics.ObserveOrder(shortfall, nil)
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var nf *NotFoundError
	switch {
	case errors.As(err, &nf):
		appErr := common.NotFound("BOOK_NOT_FOUND", "book not found", err)
		appErr.Details = map[string]string{"isbn": nf.ISBN}
		common.WriteError(w, appErr)
	case errors.Is(err, ErrInvalidQuantity):
		common.WriteError(w, common.InvalidInput("quantity must not be negative", err))
	default:
		h.Logger.Error().Err(err).Msg("order quote failed")
		common.WriteError(w, err)
	}
}
