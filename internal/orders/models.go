package orders

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is append-only: created exactly once by the placement engine,
// never updated or deleted.
type Order struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PlaceRequest is an inbound order request. IdempotencyKey is optional;
// when set, a retried request with the same key returns the order created
// by the first attempt instead of placing a second one.
type PlaceRequest struct {
	UserID         string `json:"user_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	IdempotencyKey string `json:"-"`
}
