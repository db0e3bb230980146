package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopline/orders-api/internal/orders"
)

// PlacementEngine is what the handler needs from the order core.
type PlacementEngine interface {
	PlaceOrder(ctx context.Context, req orders.PlaceRequest) (orders.Order, error)
	ListOrdersForUser(ctx context.Context, userID string, limit, offset int) ([]orders.Order, error)
}

type OrdersHandler struct {
	Engine PlacementEngine
	Log    zerolog.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Get("/orders/{userID}", h.listOrders)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}
	req.IdempotencyKey = r.Header.Get("X-Idempotency-Key")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.PlaceOrder(ctx, req)
	if err != nil {
		h.writePlacementError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) writePlacementError(w http.ResponseWriter, req orders.PlaceRequest, err error) {
	var notFound *orders.ProductNotFoundError
	var insufficient *orders.InsufficientStockError

	switch {
	case errors.Is(err, orders.ErrMalformedReference):
		writeFieldErrors(w, []FieldError{fieldError([]string{"body", "product_id"}, "Invalid product ID format")})
	case errors.Is(err, orders.ErrInvalidQuantity):
		writeFieldErrors(w, []FieldError{fieldError([]string{"body", "quantity"}, "ensure this value is greater than 0")})
	case errors.Is(err, orders.ErrMissingUser):
		writeFieldErrors(w, []FieldError{fieldError([]string{"body", "user_id"}, "ID cannot be empty")})
	case errors.As(err, &notFound):
		h.Log.Warn().Str("product_id", req.ProductID).Msg("order references unknown product")
		writeDetail(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &insufficient):
		h.Log.Warn().
			Str("product_id", req.ProductID).
			Int("available", insufficient.Available).
			Int("requested", insufficient.Requested).
			Msg("order rejected, insufficient stock")
		writeDetail(w, http.StatusBadRequest, insufficient.Error())
	case errors.Is(err, orders.ErrTimeout):
		h.Log.Error().Err(err).Msg("order placement timed out")
		writeDetail(w, http.StatusGatewayTimeout, "Order placement timed out, outcome unknown")
	default:
		h.Log.Error().Err(err).Msg("order placement failed")
		writeDetail(w, http.StatusInternalServerError, "Failed to create order")
	}
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, offset, ferrs := parsePagination(r.URL.Query())
	if len(ferrs) > 0 {
		writeFieldErrors(w, ferrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Engine.ListOrdersForUser(ctx, userID, limit, offset)
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", userID).Msg("order listing failed")
		writeDetail(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}
