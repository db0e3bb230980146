package catalog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the Mongo-backed product store. available_quantity is only ever
// mutated through TryDecrement and Increment so the non-negativity invariant
// is enforced by the guarded update, not by callers.
type Store struct {
	c *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

func (s *Store) GetByID(ctx context.Context, id string) (Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Product{}, ErrNotFound
	}
	var p Product
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// TryDecrement reduces available_quantity by n only if at least n units
// remain at the moment of the write. The filter and $inc execute as one
// atomic document update, so concurrent callers cannot drive the quantity
// negative.
func (s *Store) TryDecrement(ctx context.Context, id string, n int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "available_quantity": bson.M{"$gte": n}},
		bson.M{
			"$inc": bson.M{"available_quantity": -n},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// No match means the product is gone or the stock moved under us.
		count, err := s.c.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// Increment restores n units. Used only as the compensating action when an
// order insert fails after a successful decrement.
func (s *Store) Increment(ctx context.Context, id string, n int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"available_quantity": n},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Product, error) {
	opts := options.Find().
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, buildListFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func buildListFilter(f ListFilter) bson.M {
	q := bson.M{}
	if f.Name != "" {
		q["name"] = bson.M{"$regex": f.Name, "$options": "i"}
	}
	if f.Size != "" {
		q["size"] = bson.M{"$in": bson.A{normalizeSize(f.Size)}}
	}
	return q
}
