package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records/internal/models"
	"github.com/noah-isme/student-records/internal/repository"
	"github.com/noah-isme/student-records/pkg/config"
)

func TestReadSeed(t *testing.T) {
	students, err := readSeed(filepath.Join("..", "..", "testdata", "students.json"))
	require.NoError(t, err)
	require.Len(t, students, 5)
	assert.Equal(t, "José Martinez", students[0].Name)

	students, err = readSeed("")
	require.NoError(t, err)
	assert.Nil(t, students)

	_, err = readSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestViewParamsFromConfig(t *testing.T) {
	params := viewParams(config.ViewConfig{
		Department: "ECE",
		Year:       2,
		Search:     "ravi",
		SortKey:    "CGPA",
		SortOrder:  "DESC",
		Page:       1,
		PageSize:   5,
	})
	assert.Equal(t, models.ViewParams{
		Department:    models.DepartmentECE,
		Year:          2,
		Search:        "ravi",
		SortKey:       models.SortByCGPA,
		SortDirection: models.SortDesc,
		Page:          1,
		PageSize:      5,
	}, params)
}

func TestViewParamsResetDropsFilters(t *testing.T) {
	params := viewParams(config.ViewConfig{
		Department: "ECE",
		Year:       2,
		Search:     "ravi",
		SortKey:    "cgpa",
		SortOrder:  "desc",
		Page:       3,
		PageSize:   5,
		Reset:      true,
	})
	assert.Equal(t, models.ViewParams{
		SortKey:       models.SortByCGPA,
		SortDirection: models.SortDesc,
		PageSize:      5,
	}, params)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closer, err := openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}})
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryBlobRepository{}, store)
	assert.NoError(t, closer.Close())

	dir := t.TempDir()
	store, _, err = openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageFile, Dir: dir}})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", []byte(`[]`)))
	_, err = os.Stat(filepath.Join(dir, "k.json"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "k.json"), store.(*repository.FileBlobRepository).Location("k"))

	_, _, err = openStore(ctx, &config.Config{Storage: config.StorageConfig{Driver: "etcd"}})
	assert.Error(t, err)
}
