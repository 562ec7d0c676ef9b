package repository

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/student-records/pkg/errors"
	"github.com/noah-isme/student-records/pkg/storage"
)

type blobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

func exerciseBlobStore(t *testing.T, store blobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "students")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)

	require.NoError(t, store.Put(ctx, "students", []byte(`[{"id":1}]`)))
	got, err := store.Get(ctx, "students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	require.NoError(t, store.Put(ctx, "students", []byte(`[]`)))
	got, err = store.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, "students"))
	_, err = store.Get(ctx, "students")
	assert.ErrorIs(t, err, appErrors.ErrStoreMiss)
}

func TestMemoryBlobRepository(t *testing.T) {
	exerciseBlobStore(t, NewMemoryBlobRepository())
}

func TestMemoryBlobRepositoryCopiesPayload(t *testing.T) {
	repo := NewMemoryBlobRepository()
	payload := []byte("abc")
	require.NoError(t, repo.Put(context.Background(), "k", payload))
	payload[0] = 'x'

	got, err := repo.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryBlobRepositoryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryBlobRepository().Put(ctx, "k", nil), context.Canceled)
}

func TestFileBlobRepository(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseBlobStore(t, NewFileBlobRepository(files))
}

func TestFileBlobRepositoryRejectsBadKey(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewFileBlobRepository(files)

	err = repo.Put(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrStoreMiss))
	assert.Empty(t, repo.Location("../escape"))
}

func TestFileBlobRepositoryLocation(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := NewFileBlobRepository(files)

	require.NoError(t, repo.Put(context.Background(), "students", []byte(`[]`)))
	data, err := os.ReadFile(repo.Location("students"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRedisBlobRepositoryWithoutClient(t *testing.T) {
	repo := NewRedisBlobRepository(nil, "students:")
	_, err := repo.Get(context.Background(), "k")
	assert.ErrorIs(t, err, appErrors.ErrStoreMiss)
	assert.NoError(t, repo.Put(context.Background(), "k", []byte("x")))
	assert.NoError(t, repo.Delete(context.Background(), "k"))
	assert.NoError(t, repo.Close())
}

func TestRedisBlobRepositoryUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewRedisBlobRepository(client, "students:")
	defer repo.Close() //nolint:errcheck

	_, err := repo.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrStoreMiss))
	assert.Error(t, repo.Put(context.Background(), "k", []byte("x")))
}

func newBlobMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPostgresBlobRepositoryGet(t *testing.T) {
	db, mock, cleanup := newBlobMock(t)
	defer cleanup()
	repo := NewPostgresBlobRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM student_blobs WHERE key = $1")).
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[]`)))

	got, err := repo.Get(context.Background(), "students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBlobRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newBlobMock(t)
	defer cleanup()
	repo := NewPostgresBlobRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM student_blobs WHERE key = $1")).
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := repo.Get(context.Background(), "students")
	assert.ErrorIs(t, err, appErrors.ErrStoreMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBlobRepositoryPutAndDelete(t *testing.T) {
	db, mock, cleanup := newBlobMock(t)
	defer cleanup()
	repo := NewPostgresBlobRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS student_blobs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO student_blobs").
		WithArgs("students", []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_blobs WHERE key = $1")).
		WithArgs("students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.Put(context.Background(), "students", []byte(`[]`)))
	require.NoError(t, repo.Delete(context.Background(), "students"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBlobRepositoryPutFailure(t *testing.T) {
	db, mock, cleanup := newBlobMock(t)
	defer cleanup()
	repo := NewPostgresBlobRepository(db)

	mock.ExpectExec("INSERT INTO student_blobs").
		WillReturnError(errors.New("connection reset"))

	err := repo.Put(context.Background(), "students", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put blob students")
	assert.NoError(t, mock.ExpectationsWereMet())
}
