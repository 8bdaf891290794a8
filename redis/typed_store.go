package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds optimistic retries in Update. A conflict means
// another writer committed, so contention among n writers needs at most n
// attempts each.
const maxUpdateAttempts = 64

// TypedStore provides JSON-serialized get/set operations for one value type
// under a key namespace.
type TypedStore[C any] struct {
	client    *Client
	namespace string
}

// NewTypedStore creates a TypedStore whose keys live under the client
// prefix followed by namespace.
func NewTypedStore[C any](client *Client, namespace string) *TypedStore[C] {
	return &TypedStore[C]{client: client, namespace: namespace}
}

// Key returns the full Redis key for id.
func (s *TypedStore[C]) Key(id string) string {
	return s.client.Key(s.namespace, id)
}

// Load deserializes JSON from Redis. Returns (nil, nil) if the key doesn't exist.
func (s *TypedStore[C]) Load(ctx context.Context, id string) (*C, error) {
	raw, err := s.client.Get(ctx, s.Key(id))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("typed store load %q: %w", id, err)
	}

	var val C
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", id, err)
	}
	return &val, nil
}

// Save serializes to JSON and stores with TTL. TTL of 0 means no expiration.
func (s *TypedStore[C]) Save(ctx context.Context, id string, val *C, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", id, err)
	}
	if err := s.client.Set(ctx, s.Key(id), string(data), ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", id, err)
	}
	return nil
}

// Create stores val only if no value exists under id yet. It reports
// whether the value was written.
func (s *TypedStore[C]) Create(ctx context.Context, id string, val *C, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(val)
	if err != nil {
		return false, fmt.Errorf("typed store marshal %q: %w", id, err)
	}
	ok, err := s.client.SetNX(ctx, s.Key(id), string(data), ttl)
	if err != nil {
		return false, fmt.Errorf("typed store create %q: %w", id, err)
	}
	return ok, nil
}

// Update loads the value, applies fn and writes it back under WATCH so a
// concurrent write to the same key forces a retry instead of being lost.
// It returns ErrNil when the key does not exist; an error from fn aborts
// without writing.
func (s *TypedStore[C]) Update(ctx context.Context, id string, ttl time.Duration, fn func(*C) error) error {
	key := s.Key(id)
	apply := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		var val C
		if err := json.Unmarshal([]byte(raw), &val); err != nil {
			return fmt.Errorf("typed store unmarshal %q: %w", id, err)
		}
		if err := fn(&val); err != nil {
			return err
		}
		data, err := json.Marshal(&val)
		if err != nil {
			return fmt.Errorf("typed store marshal %q: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, string(data), ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Unwrap().Watch(ctx, apply, key)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, goredis.TxFailedErr):
			continue
		case IsNil(err):
			return ErrNil
		default:
			return fmt.Errorf("typed store update %q: %w", id, err)
		}
	}
	return fmt.Errorf("typed store update %q: %w", id, goredis.TxFailedErr)
}

// Delete removes the key.
func (s *TypedStore[C]) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.Key(id)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", id, err)
	}
	return nil
}
