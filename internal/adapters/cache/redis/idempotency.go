package redis

import (
	"context"
	"errors"
	"time"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	goredis "github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix = "ledger:idempotency:"
	pendingMarker     = "pending"
)

// IdempotencyStore maps Idempotency-Key header values to the transaction they produced.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ portsrepo.IdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. When the key exists, the stored transaction ID is returned,
// or an empty ID while the original request is still in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		// Expired between the two calls; try once more.
		ok, err = s.client.SetNX(ctx, idempotencyPrefix+key, pendingMarker, s.ttl).Result()
		return "", ok, err
	}
	if err != nil {
		return "", false, err
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, transactionID string) error {
	return s.client.Set(ctx, idempotencyPrefix+key, transactionID, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyPrefix+key).Err()
}
