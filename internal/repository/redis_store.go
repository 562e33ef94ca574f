package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a JSON string value under a prefixed key
type RedisStore struct {
	client  *redis.Client
	options RedisStoreOptions
}

// RedisStoreOptions defines the configuration of a RedisStore
type RedisStoreOptions struct {
	Prefix string
}

type RedisStoreOption func(*RedisStoreOptions)

// WithKeyPrefix sets the prefix prepended to every document key
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(o *RedisStoreOptions) {
		o.Prefix = prefix
	}
}

// NewRedisStore creates a store on top of an existing redis client
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	options := &RedisStoreOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &RedisStore{
		client:  client,
		options: *options,
	}
}

// Load decodes the document stored under key into dst
func (s *RedisStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	const op = "redis.Store.Load"

	data, err := s.client.Get(ctx, s.options.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: failed to get %s: %w", op, key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%s: failed to decode %s: %w", op, key, err)
	}
	return true, nil
}

// Save stores the encoded document under key without expiry
func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	const op = "redis.Store.Save"

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: failed to encode %s: %w", op, key, err)
	}
	if err := s.client.Set(ctx, s.options.Prefix+key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("%s: failed to set %s: %w", op, key, err)
	}
	return nil
}

// Delete removes the document stored under key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	const op = "redis.Store.Delete"

	if err := s.client.Del(ctx, s.options.Prefix+key).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete %s: %w", op, key, err)
	}
	return nil
}

// Close closes the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
