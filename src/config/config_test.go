package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autobooks/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

const baseSettings = `
service:
  type: API
  port: "9000"
databases:
  sql:
    host: localhost
    port: "5432"
    username: books
    password: secret
    database: autobooks
auth:
  jwtSecret: base-secret
`

func TestLoadConfig(t *testing.T) {
	t.Run("reads base settings and defaults", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": baseSettings})

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, config.API, cfg.Service.Type)
		assert.Equal(t, "9000", cfg.Service.Port)
		assert.Equal(t, 10*time.Second, cfg.Service.RequestTimeout)
		assert.Equal(t, config.AuthModeJWT, cfg.Auth.Mode)
		assert.Equal(t, "0 3 1 * *", cfg.Worker.DepreciationCron)
		assert.Equal(t, 10*time.Minute, cfg.Cache.CategoryTTL)
		assert.False(t, cfg.Databases.Redis.Enabled())
		assert.Equal(t, "host=localhost user=books password=secret dbname=autobooks port=5432 sslmode=disable", cfg.Databases.SQL.DSN())
	})

	t.Run("environment file overlays base settings", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{
			"appsettings.yaml": baseSettings,
			"appsettings.TESTING.yaml": `
databases:
  sql:
    database: autobooks_test
service:
  type: WORKER
`,
		})

		cfg, err := config.LoadConfig(dir, "TESTING")
		require.NoError(t, err)

		assert.Equal(t, config.WORKER, cfg.Service.Type)
		assert.Equal(t, "autobooks_test", cfg.Databases.SQL.Database)
		assert.Equal(t, "books", cfg.Databases.SQL.Username)
	})

	t.Run("environment variables win", func(t *testing.T) {
		dir := writeSettings(t, map[string]string{"appsettings.yaml": baseSettings})
		t.Setenv("AUTOBOOKS_AUTH_JWTSECRET", "from-env")

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	})

	t.Run("connection string takes precedence", func(t *testing.T) {
		sql := config.SQLConfig{ConnectionString: "postgres://x@y/z", Host: "ignored"}
		assert.Equal(t, "postgres://x@y/z", sql.DSN())
	})

	t.Run("missing settings directory fails", func(t *testing.T) {
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope"), "")
		require.Error(t, err)
	})
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretValue(id string) (string, error) {
	v, ok := f[id]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func TestApplySecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.AWS.Region = "ca-central-1"
	cfg.AWS.Secrets.SQLPasswordID = "db"
	cfg.AWS.Secrets.JWTSecretID = "jwt"
	require.True(t, cfg.UsesSecretsManager())

	require.NoError(t, cfg.ApplySecrets(fakeSecrets{"db": "pw", "jwt": "signing"}))
	assert.Equal(t, "pw", cfg.Databases.SQL.Password)
	assert.Equal(t, "signing", cfg.Auth.JWTSecret)

	cfg.AWS.Secrets.JWTSecretID = "missing"
	require.Error(t, cfg.ApplySecrets(fakeSecrets{"db": "pw"}))
}
