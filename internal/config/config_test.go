package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 8080
database:
  host: db
  user: sewa
  database: sewa
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, minimalYAML))
		require.NoError(t, err)

		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, "0 0 1 * * *", cfg.Scheduler.ExpirePendingBookings)
		assert.Equal(t, "booking.status_changed", cfg.RabbitMQ.Queue)
		assert.Equal(t, time.Hour, cfg.AccessTokenTTL())
		assert.Equal(t, 3*time.Second, cfg.RateLimit.RefillInterval())
		assert.Equal(t, "postgres://sewa:@db:5432/sewa?sslmode=disable", cfg.GetDatabaseConnectionString())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("DB_HOST", "pg.internal")
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("RATE_LIMIT_ENABLED", "true")

		cfg, err := Load(writeConfig(t, minimalYAML))
		require.NoError(t, err)
		assert.Equal(t, "pg.internal", cfg.Database.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, ":9000", cfg.GetServerAddress())
	})

	t.Run("Short secret", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
server:
  port: 8080
database:
  host: db
  user: sewa
  database: sewa
jwt:
  secret: "short"
`))
		assert.ErrorContains(t, err, "at least 32 characters")
	})

	t.Run("Port clash", func(t *testing.T) {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.Server.GRPCPort = 8080
		assert.ErrorContains(t, cfg.Validate(), "must differ")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel(RouteHealthCheck))
	assert.Equal(t, SecurityAccess, GetSecurityLevel(RoutePostMessage))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("SomethingNew"))
}
