package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/student-records/pkg/errors"
)

const createBlobTable = `CREATE TABLE IF NOT EXISTS student_blobs (
        key TEXT PRIMARY KEY,
        payload BYTEA NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`

// PostgresBlobRepository stores blobs in a single key/payload table.
type PostgresBlobRepository struct {
	db *sqlx.DB
}

// NewPostgresBlobRepository constructs a PostgresBlobRepository.
func NewPostgresBlobRepository(db *sqlx.DB) *PostgresBlobRepository {
	return &PostgresBlobRepository{db: db}
}

// EnsureSchema creates the blob table when it does not exist yet.
func (r *PostgresBlobRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBlobTable); err != nil {
		return fmt.Errorf("create student_blobs: %w", err)
	}
	return nil
}

// Get fetches the payload stored under key.
func (r *PostgresBlobRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, `SELECT payload FROM student_blobs WHERE key = $1`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return payload, nil
}

// Put inserts or replaces the payload for key.
func (r *PostgresBlobRepository) Put(ctx context.Context, key string, payload []byte) error {
	const query = `INSERT INTO student_blobs (key, payload, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the row for key.
func (r *PostgresBlobRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
