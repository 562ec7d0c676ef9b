package repository

import (
	"context"

	appErrors "github.com/noah-isme/student-records/pkg/errors"
)

// MemoryBlobRepository keeps blobs in process memory. Nothing survives a
// restart; it backs the "memory" storage driver and tests.
type MemoryBlobRepository struct {
	blobs map[string][]byte
}

// NewMemoryBlobRepository constructs an empty in-memory store.
func NewMemoryBlobRepository() *MemoryBlobRepository {
	return &MemoryBlobRepository{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
func (r *MemoryBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, ok := r.blobs[key]
	if !ok {
		return nil, appErrors.ErrStoreMiss
	}
	return append([]byte(nil), payload...), nil
}

// Put stores a copy of payload under key.
func (r *MemoryBlobRepository) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.blobs[key] = append([]byte(nil), payload...)
	return nil
}

// Delete removes key if present.
func (r *MemoryBlobRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(r.blobs, key)
	return nil
}
