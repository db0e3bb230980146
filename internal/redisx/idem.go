package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// IdemStore records which order an idempotency key created. SET NX keeps
// the first order for a key; later placements with the same key replay it.
type IdemStore struct {
	C *redis.Client
}

func (s *IdemStore) Lookup(ctx context.Context, key string) (string, error) {
	id, err := s.C.Get(ctx, fmt.Sprintf(KeyIdemOrderPlace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *IdemStore) Remember(ctx context.Context, key, orderID string) error {
	return s.C.SetNX(ctx, fmt.Sprintf(KeyIdemOrderPlace, key), orderID, TTLIdempotency).Err()
}
