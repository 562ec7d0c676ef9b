package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records/internal/models"
	"github.com/noah-isme/student-records/internal/repository"
	"github.com/noah-isme/student-records/internal/service"
	"github.com/noah-isme/student-records/pkg/cache"
	"github.com/noah-isme/student-records/pkg/config"
	"github.com/noah-isme/student-records/pkg/database"
	"github.com/noah-isme/student-records/pkg/logger"
	"github.com/noah-isme/student-records/pkg/storage"
)

type blobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("storage unavailable", "driver", cfg.Storage.Driver, "error", err)
	}
	defer closer.Close() //nolint:errcheck
	if files, ok := store.(*repository.FileBlobRepository); ok {
		logr.Info("file storage", zap.String("path", files.Location(cfg.Storage.Key)))
	}

	seed, err := readSeed(cfg.SeedFile)
	if err != nil {
		logr.Sugar().Fatalw("failed to read seed file", "path", cfg.SeedFile, "error", err)
	}

	metrics := service.NewMetricsService()
	students := service.NewStudentService(store, validator.New(), metrics, logr, service.StudentServiceOptions{
		Key:     cfg.Storage.Key,
		Timeout: cfg.Storage.Timeout,
	})
	fromStore := students.Init(ctx, seed)
	logr.Sugar().Infow("session ready", "driver", cfg.Storage.Driver, "from_storage", fromStore, "count", students.Count())

	params := viewParams(cfg.View)
	result := students.View(params)
	for _, st := range result.Students {
		logr.Info("student",
			zap.Int("id", st.ID),
			zap.String("roll_number", st.RollNumber),
			zap.String("name", st.Name),
			zap.String("department", string(st.Department)),
			zap.Int("year", st.Year),
			zap.Float64("cgpa", st.CGPA),
		)
	}
	logr.Sugar().Infow("view derived",
		"page", result.Pagination.Page,
		"page_size", result.Pagination.PageSize,
		"total_count", result.Pagination.TotalCount,
		"total_pages", result.Pagination.TotalPages,
		"collection_count", result.CollectionCount,
	)

	if cfg.Export.Path != "" {
		if err := writeExport(students, params, cfg.Export); err != nil {
			logr.Sugar().Fatalw("export failed", "path", cfg.Export.Path, "error", err)
		}
		logr.Sugar().Infow("export written", "path", cfg.Export.Path, "format", cfg.Export.Format)
	}

	if families, err := metrics.Registry().Gather(); err == nil {
		for _, mf := range families {
			logr.Debug("metric", zap.String("name", mf.GetName()), zap.Int("series", len(mf.GetMetric())))
		}
	}
}

// openStore builds the blob store selected by STORAGE_DRIVER. The returned
// closer releases any client it opened.
func openStore(ctx context.Context, cfg *config.Config) (blobStore, io.Closer, error) {
	switch cfg.Storage.Driver {
	case "", config.StorageMemory:
		return repository.NewMemoryBlobRepository(), io.NopCloser(nil), nil
	case config.StorageFile:
		files, err := storage.NewLocalStorage(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFileBlobRepository(files), io.NopCloser(nil), nil
	case config.StorageRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis, cfg.Storage.Timeout)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisBlobRepository(client, cfg.Redis.Prefix)
		return repo, repo, nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, cfg.Storage.Timeout)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresBlobRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func readSeed(path string) ([]models.Student, error) {
	if path == "" {
		return nil, nil
	}
	payload, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return service.DecodeStudents(payload)
}

// viewParams builds the view from VIEW_* settings. VIEW_RESET drops the
// department, year and search filters and returns to the first page.
func viewParams(cfg config.ViewConfig) models.ViewParams {
	params := models.DefaultViewParams().
		WithDepartment(models.Department(cfg.Department)).
		WithYear(cfg.Year).
		WithSearch(cfg.Search).
		WithSort(models.SortKey(strings.ToLower(cfg.SortKey)), models.SortDirection(strings.ToLower(cfg.SortOrder))).
		WithPageSize(cfg.PageSize).
		WithPage(cfg.Page)
	if cfg.Reset {
		params = params.ResetFilters()
	}
	return params
}

func writeExport(students *service.StudentService, params models.ViewParams, cfg config.ExportConfig) error {
	out, err := students.Export(params, cfg.Format, cfg.Title)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(cfg.Path, out, 0o644)
}
