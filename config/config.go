// Package config loads the gateway configuration from the environment.
// A .env file in the working directory is read first when it exists.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "default-secret-key-change-in-production"

type Config struct {
	Port     string
	GinMode  string
	Backend  BackendConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Log      LogConfig
	PageSize int
	// LogStreamInterval is how often the live activity feed polls the backend.
	LogStreamInterval time.Duration
}

// BackendConfig points at the LMS REST API.
type BackendConfig struct {
	URL            string
	Timeout        time.Duration
	Retries        int
	StrictContract bool
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type RedisConfig struct {
	URL             string
	CatalogCacheTTL time.Duration
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		p.Host, p.User, p.Password, p.Name, p.Port)
}

type MongoConfig struct {
	URI    string
	DBName string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	} else if err != nil {
		slog.Info("no .env file found, using environment variables")
	}
	cfg := FromViper(newViper())
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LMS_API_URL", "http://localhost:5000")
	v.SetDefault("LMS_API_TIMEOUT", 10*time.Second)
	v.SetDefault("LMS_API_RETRIES", 2)
	v.SetDefault("LMS_API_STRICT_CONTRACT", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CATALOG_CACHE_TTL", 5*time.Minute)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "lms_dashboard")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "lms_dashboard")
	v.SetDefault("PAGE_SIZE", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_STREAM_INTERVAL", 5*time.Second)

	v.AutomaticEnv()
	return v
}

// FromViper builds a Config out of an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),
		Backend: BackendConfig{
			URL:            v.GetString("LMS_API_URL"),
			Timeout:        v.GetDuration("LMS_API_TIMEOUT"),
			Retries:        v.GetInt("LMS_API_RETRIES"),
			StrictContract: v.GetBool("LMS_API_STRICT_CONTRACT"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("JWT_SECRET"),
			SessionTTL: v.GetDuration("SESSION_TTL"),
		},
		Redis: RedisConfig{
			URL:             v.GetString("REDIS_URL"),
			CatalogCacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
		},
		Mongo: MongoConfig{
			URI:    v.GetString("MONGO_URI"),
			DBName: v.GetString("MONGO_DB_NAME"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		PageSize:          v.GetInt("PAGE_SIZE"),
		LogStreamInterval: v.GetDuration("LOG_STREAM_INTERVAL"),
	}
}

// Validate checks the settings the gateway cannot run without.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("LMS_API_URL is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	if c.GinMode == "release" && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}

// Logger builds the process logger from the Log settings.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
