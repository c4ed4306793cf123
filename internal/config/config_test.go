package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "courseApp", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AdminTokenTTL)
	assert.Equal(t, time.Duration(0), cfg.JWT.UserTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.False(t, cfg.Minio.Enabled)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "9090"
database:
  driver: memory
  timeout: 3s
jwt:
  secret: from-file
  user_token_ttl: 1h
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("DB_TRANSACTIONS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Database.Transactions)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.UserTokenTTL)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "postgres"}},
		{name: "bad timeout", env: map[string]string{"JWT_SECRET": "s", "DB_TIMEOUT": "soon"}},
		{name: "bad user ttl", env: map[string]string{"JWT_SECRET": "s", "JWT_USER_TOKEN_TTL": "forever"}},
		{name: "negative user ttl", env: map[string]string{"JWT_SECRET": "s", "JWT_USER_TOKEN_TTL": "-1h"}},
		{name: "zero timeout", env: map[string]string{"JWT_SECRET": "s", "DB_TIMEOUT": "0s"}},
		{name: "bad bool", env: map[string]string{"JWT_SECRET": "s", "MINIO_ENABLED": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			os.Unsetenv("JWT_SECRET")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigNormalizesDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DB_DRIVER", " Memory ")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoadConfigDurationFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_ADMIN_TOKEN_TTL", "90m")
	t.Setenv("DB_TIMEOUT", "250ms")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.JWT.AdminTokenTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.Timeout)
}
