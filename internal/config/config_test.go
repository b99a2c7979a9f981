package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/babypool
auth:
  jwt_secret: s3cret
  provisioning_key: pk
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "site_builds", cfg.RabbitMQ.BuildQueue)
	assert.Equal(t, 3*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Subdomain.Strict, "strict registry checks are the default")
	assert.Equal(t, 2, cfg.Builder.Workers)
	assert.Empty(t, cfg.Builder.OutputDir)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/babypool
registry:
  url: http://registry.internal
  timeout: 1500ms
subdomain:
  strict: false
  reserved: [foo, bar]
auth:
  jwt_secret: s3cret
  provisioning_key: pk
`)
	t.Setenv("BABYPOOL_DATABASE_URL", "postgres://override/db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://override/db", cfg.Database.URL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Registry.Timeout)
	assert.False(t, cfg.Subdomain.Strict)
	assert.Equal(t, []string{"foo", "bar"}, cfg.Subdomain.Reserved)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestLoadConfig_BuilderNeedsRabbit(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/babypool
builder:
  output_dir: /tmp/sites
auth:
  jwt_secret: s3cret
  provisioning_key: pk
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder.output_dir")
}
