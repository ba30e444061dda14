package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(5004), cfg.HTTP.Port)
	assert.Equal(t, "localhost", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Equal(t, "./templates", cfg.UI.TemplatesPath)
	assert.False(t, cfg.UI.ReadOnly)
	assert.True(t, cfg.Security.CSRFEnabled)
	assert.False(t, cfg.Security.SecureCookies)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.Lifetime)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 7, cfg.Snapshots.Keep)
	assert.Equal(t, "0 3 * * *", cfg.Snapshots.Schedule)
	assert.Equal(t, 30, cfg.Activity.RetentionDays)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/books.db")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("SNAPSHOT_KEEP", "3")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/books.db", cfg.Database.Path)
	assert.True(t, cfg.UI.ReadOnly)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.Lifetime)
	assert.Equal(t, 3, cfg.Snapshots.Keep)
}
