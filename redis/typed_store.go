package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TypedStore stores JSON-encoded values of T under prefix:key.
type TypedStore[T any] struct {
	client    *Client
	keyPrefix string
}

// NewTypedStore creates a store on client. An empty prefix leaves keys as is.
func NewTypedStore[T any](client *Client, keyPrefix string) *TypedStore[T] {
	return &TypedStore[T]{client: client, keyPrefix: keyPrefix}
}

func (s *TypedStore[T]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns (nil, nil) when the key does not exist.
func (s *TypedStore[T]) Load(ctx context.Context, key string) (*T, error) {
	raw, err := s.client.rdb.Get(ctx, s.fullKey(key)).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	var val T
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

// Save stores val. A ttl of 0 means no expiration.
func (s *TypedStore[T]) Save(ctx context.Context, key string, val *T, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	if err := s.client.rdb.Set(ctx, s.fullKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *TypedStore[T]) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}
