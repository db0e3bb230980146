package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopline/orders-api/internal/catalog"
	kafkax "github.com/shopline/orders-api/internal/kafka"
)

// maxDecrementAttempts bounds the read-check-write retry loop when the
// conditional decrement loses a race against concurrent placements.
const maxDecrementAttempts = 3

// ProductStore is the product-side capability the engine consumes.
// TryDecrement must be atomic with respect to concurrent callers.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (catalog.Product, error)
	TryDecrement(ctx context.Context, id string, n int) error
	Increment(ctx context.Context, id string, n int) error
}

type OrderStore interface {
	Insert(ctx context.Context, o Order) error
	GetByID(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// IdempotencyStore maps client-supplied idempotency keys to the order each
// key first created. Lookup returns "" with a nil error on a miss; Remember
// must keep the first recorded order for a key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (orderID string, err error)
	Remember(ctx context.Context, key, orderID string) error
}

// Engine is the single authoritative entry point for order placement. It
// holds no mutable state of its own; all inventory state lives in the
// stores, so it is safe to call from any number of goroutines.
type Engine struct {
	Products ProductStore
	Orders   OrderStore
	Idem     IdempotencyStore // optional, enables idempotency-key dedup
	Producer Publisher        // optional, publishes OrderPlaced events
	Service  string
	Log      zerolog.Logger
}

// PlaceOrder validates the request, checks stock, atomically decrements it
// and records the order. Exactly one of the documented errors is returned
// on failure; stock is only ever decremented for orders that get recorded,
// except for the ErrPartialFailure path where the compensating increment
// itself failed.
func (e *Engine) PlaceOrder(ctx context.Context, req PlaceRequest) (Order, error) {
	if err := req.Validate(); err != nil {
		return Order{}, err
	}

	if o, ok := e.replayIdempotent(ctx, req); ok {
		return o, nil
	}

	p, err := e.Products.GetByID(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Order{}, &ProductNotFoundError{ID: req.ProductID}
	}
	if err != nil {
		return Order{}, e.classify(ctx, err)
	}

	// The advisory value only produces a precise error message; the
	// decrement below is what actually guards the invariant.
	available := p.AvailableQuantity
	decremented := false
	for attempt := 1; attempt <= maxDecrementAttempts; attempt++ {
		if available < req.Quantity {
			break
		}
		err := e.Products.TryDecrement(ctx, req.ProductID, req.Quantity)
		if err == nil {
			decremented = true
			break
		}
		switch {
		case errors.Is(err, catalog.ErrInsufficientStock):
			// Lost a race since the last read; refresh and try again.
			fresh, gerr := e.Products.GetByID(ctx, req.ProductID)
			if gerr != nil {
				if errors.Is(gerr, catalog.ErrNotFound) {
					return Order{}, &ProductNotFoundError{ID: req.ProductID}
				}
				return Order{}, e.classify(ctx, gerr)
			}
			available = fresh.AvailableQuantity
		case errors.Is(err, catalog.ErrNotFound):
			return Order{}, &ProductNotFoundError{ID: req.ProductID}
		default:
			return Order{}, e.classify(ctx, err)
		}
	}
	if !decremented {
		return Order{}, &InsufficientStockError{Available: available, Requested: req.Quantity}
	}

	o := Order{
		ID:        primitive.NewObjectID(),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.Orders.Insert(ctx, o); err != nil {
		return Order{}, e.compensate(req, o, err)
	}

	e.rememberIdempotent(ctx, req, o)
	e.publishPlaced(o)

	return o, nil
}

// ListOrdersForUser returns the user's orders newest first. Pagination
// parameters are assumed validated by the boundary layer.
func (e *Engine) ListOrdersForUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return e.Orders.ListByUser(ctx, userID, limit, offset)
}

// compensate restores the decremented stock after a failed order insert.
// It runs on a fresh context so a caller timeout cannot abort the repair.
func (e *Engine) compensate(req PlaceRequest, o Order, insertErr error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Products.Increment(ctx, req.ProductID, req.Quantity); err != nil {
		e.Log.Error().Err(err).
			Str("order_id", o.ID.Hex()).
			Str("product_id", req.ProductID).
			Int("quantity", req.Quantity).
			Msg("compensating increment failed, stock decremented without recorded order")
	} else {
		e.Log.Warn().Err(insertErr).
			Str("product_id", req.ProductID).
			Msg("order insert failed, stock restored")
	}
	return fmt.Errorf("%w: %v", ErrPartialFailure, insertErr)
}

func (e *Engine) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// replayIdempotent returns the order created by a previous attempt with the
// same idempotency key, if one is recorded. Best-effort: a store miss or
// error falls through to a normal placement.
func (e *Engine) replayIdempotent(ctx context.Context, req PlaceRequest) (Order, bool) {
	if req.IdempotencyKey == "" || e.Idem == nil {
		return Order{}, false
	}
	id, err := e.Idem.Lookup(ctx, req.IdempotencyKey)
	if err != nil {
		e.Log.Warn().Err(err).Msg("idempotency lookup failed")
		return Order{}, false
	}
	if id == "" {
		return Order{}, false
	}
	o, err := e.Orders.GetByID(ctx, id)
	if err != nil {
		e.Log.Warn().Err(err).Str("order_id", id).Msg("idempotency key points at unknown order")
		return Order{}, false
	}
	return o, true
}

func (e *Engine) rememberIdempotent(ctx context.Context, req PlaceRequest, o Order) {
	if req.IdempotencyKey == "" || e.Idem == nil {
		return
	}
	if err := e.Idem.Remember(ctx, req.IdempotencyKey, o.ID.Hex()); err != nil {
		e.Log.Warn().Err(err).Str("order_id", o.ID.Hex()).Msg("idempotency record not stored")
	}
}

func (e *Engine) publishPlaced(o Order) {
	if e.Producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Service,
		CorrelationID: o.ID.Hex(),
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID:   o.ID.Hex(),
			UserID:    o.UserID,
			ProductID: o.ProductID,
			Quantity:  o.Quantity,
			PlacedAt:  o.CreatedAt,
		}),
	}
	e.Producer.Publish(PartitionKey(o.ID.Hex()), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
