package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "console-server.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  dsn: postgres://localhost/console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warranty-console-server", cfg.Server.Name)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "console_session", cfg.Session.CookieName)
	assert.Equal(t, "tenant", cfg.Tenancy.QueryParam)
	assert.Equal(t, "WarrantyHub", cfg.Tenancy.PlatformName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  environment: development
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  environment: sandbox
jwt:
  secret: test-secret
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDevFallbackForbiddenInProduction(t *testing.T) {
	path := writeConfig(t, `
server:
  environment: production
jwt:
  secret: test-secret
tenancy:
  dev_fallback: true
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override/console")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeConfig(t, `
database:
  dsn: postgres://file/console
jwt:
  secret: file-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://override/console", cfg.Database.DSN)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
