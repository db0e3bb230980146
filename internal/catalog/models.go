package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Price             float64            `bson:"price" json:"price"`
	Size              []string           `bson:"size" json:"size"`
	AvailableQuantity int                `bson:"available_quantity" json:"available_quantity"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// ListFilter narrows List results. Name matches as a case-insensitive
// substring; Size matches products whose size set contains the label.
type ListFilter struct {
	Name   string
	Size   string
	Limit  int
	Offset int
}
