package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/student-records/pkg/errors"
)

// RedisBlobRepository stores blobs as plain Redis strings without expiry.
type RedisBlobRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobRepository constructs a Redis-backed blob repository. Keys are
// namespaced with prefix.
func NewRedisBlobRepository(client *redis.Client, prefix string) *RedisBlobRepository {
	return &RedisBlobRepository{client: client, prefix: prefix}
}

// Get retrieves the blob stored under key.
func (r *RedisBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrStoreMiss
	}

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put stores payload under key.
func (r *RedisBlobRepository) Put(ctx context.Context, key string, payload []byte) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisBlobRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *RedisBlobRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
