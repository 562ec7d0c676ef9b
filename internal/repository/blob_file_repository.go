package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	appErrors "github.com/noah-isme/student-records/pkg/errors"
	"github.com/noah-isme/student-records/pkg/storage"
)

// FileBlobRepository stores each key as a JSON file on local disk.
type FileBlobRepository struct {
	files *storage.LocalStorage
}

// NewFileBlobRepository constructs a file-backed blob repository.
func NewFileBlobRepository(files *storage.LocalStorage) *FileBlobRepository {
	return &FileBlobRepository{files: files}
}

// Get reads the blob for key.
func (r *FileBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.files.Read(fileName(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("file get %s: %w", key, err)
	}
	return data, nil
}

// Put writes payload for key, replacing any previous content.
func (r *FileBlobRepository) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.files.Save(fileName(key), payload); err != nil {
		return fmt.Errorf("file put %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (r *FileBlobRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.files.Delete(fileName(key)); err != nil {
		return fmt.Errorf("file delete %s: %w", key, err)
	}
	return nil
}

// Location returns the file backing key, or "" when key is not a valid name.
func (r *FileBlobRepository) Location(key string) string {
	return r.files.Path(fileName(key))
}

func fileName(key string) string {
	return key + ".json"
}
