package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Env string

	Log      LogConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	View     ViewConfig
	Export   ExportConfig
	SeedFile string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects and tunes the blob store backing the collection.
type StorageConfig struct {
	Driver  string
	Key     string
	Dir     string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// ViewConfig holds the initial view parameters used by the bootstrap binary.
type ViewConfig struct {
	Department string
	Year       int
	Search     string
	SortKey    string
	SortOrder  string
	Page       int
	PageSize   int
	Reset      bool
}

// ExportConfig controls optional export of the derived view.
type ExportConfig struct {
	Format string
	Path   string
	Title  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.SeedFile = v.GetString("SEED_FILE")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Driver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		Key:     v.GetString("STORAGE_KEY"),
		Dir:     v.GetString("STORAGE_DIR"),
		Timeout: parseDuration(v.GetString("STORAGE_TIMEOUT"), 2*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		Prefix:   v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.View = ViewConfig{
		Department: strings.ToUpper(strings.TrimSpace(v.GetString("VIEW_DEPARTMENT"))),
		Year:       v.GetInt("VIEW_YEAR"),
		Search:     v.GetString("VIEW_SEARCH"),
		SortKey:    v.GetString("VIEW_SORT"),
		SortOrder:  v.GetString("VIEW_ORDER"),
		Page:       v.GetInt("VIEW_PAGE"),
		PageSize:   v.GetInt("VIEW_PAGE_SIZE"),
		Reset:      v.GetBool("VIEW_RESET"),
	}

	cfg.Export = ExportConfig{
		Format: strings.ToLower(v.GetString("EXPORT_FORMAT")),
		Path:   v.GetString("EXPORT_PATH"),
		Title:  v.GetString("EXPORT_TITLE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("SEED_FILE", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("STORAGE_KEY", "student_data_manager_students")
	v.SetDefault("STORAGE_DIR", "./data")
	v.SetDefault("STORAGE_TIMEOUT", "2s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_records")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "students:")

	v.SetDefault("VIEW_DEPARTMENT", "")
	v.SetDefault("VIEW_YEAR", 0)
	v.SetDefault("VIEW_SEARCH", "")
	v.SetDefault("VIEW_SORT", "name")
	v.SetDefault("VIEW_ORDER", "asc")
	v.SetDefault("VIEW_PAGE", 0)
	v.SetDefault("VIEW_PAGE_SIZE", 10)
	v.SetDefault("VIEW_RESET", false)

	v.SetDefault("EXPORT_FORMAT", "csv")
	v.SetDefault("EXPORT_PATH", "")
	v.SetDefault("EXPORT_TITLE", "Students")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
