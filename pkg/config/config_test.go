package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "student_data_manager_students", cfg.Storage.Key)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "name", cfg.View.SortKey)
	assert.Equal(t, 10, cfg.View.PageSize)
	assert.Equal(t, "csv", cfg.Export.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", " Redis ")
	t.Setenv("STORAGE_TIMEOUT", "not-a-duration")
	t.Setenv("VIEW_DEPARTMENT", "cse")
	t.Setenv("VIEW_YEAR", "3")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("VIEW_RESET", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "CSE", cfg.View.Department)
	assert.Equal(t, 3, cfg.View.Year)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.True(t, cfg.View.Reset)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_TIMEOUT", "750ms")
	v.Set("EXPORT_FORMAT", "PDF")

	cfg := fromViper(v)
	assert.Equal(t, 750*time.Millisecond, cfg.Storage.Timeout)
	assert.Equal(t, "pdf", cfg.Export.Format)
}
