package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newViper())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Backend.Retries)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.LogStreamInterval)
	require.NoError(t, cfg.Validate())
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("LMS_API_URL", "https://lms.example.org")
	t.Setenv("LMS_API_TIMEOUT", "3s")
	t.Setenv("LMS_API_STRICT_CONTRACT", "true")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := FromViper(newViper())

	assert.Equal(t, "https://lms.example.org", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Backend.StrictContract)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"empty backend", func(c *Config) { c.Backend.URL = "" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"zero session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, true},
		{"default secret in release", func(c *Config) { c.GinMode = "release" }, true},
		{"custom secret in release", func(c *Config) {
			c.GinMode = "release"
			c.Auth.JWTSecret = "s3cret"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromViper(newViper())
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("default secret rejected in release", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("zero session ttl rejected", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "SESSION_TTL")
	})

	t.Run("release with a secret", func(t *testing.T) {
		t.Setenv("GIN_MODE", "release")
		t.Setenv("JWT_SECRET", "s3cret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	})
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
		{"bad-scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRedisURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRedisURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5433"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable", p.DSN())
}
