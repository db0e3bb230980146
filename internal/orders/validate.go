package orders

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validate normalizes and checks a placement request before any I/O.
// Checks run in a fixed order and stop at the first failure: reference
// format, then quantity, then user.
func (r *PlaceRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.ProductID = strings.TrimSpace(r.ProductID)

	if _, err := primitive.ObjectIDFromHex(r.ProductID); err != nil {
		return ErrMalformedReference
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if r.UserID == "" {
		return ErrMissingUser
	}
	return nil
}
