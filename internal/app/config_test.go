package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/contacts-backend/internal/data/db"
)

// isolateConfig points the loader at a file that does not exist so a stray
// ./config/config.yaml cannot leak into the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.True(t, cfg.Avatar.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Avatar.ProbeTimeout)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Otel.Enabled)
	assert.True(t, cfg.LoggerConfig().Redact)
}

func TestLoadConfigFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	raw := `
log_mode: production
http:
  addr: ":9000"
  shutdown_timeout: 3s
  allowed_origins: ["https://app.example.com"]
db:
  driver: postgres
  postgres_host: db.internal
  postgres_name: people
avatar:
  enabled: false
  probe_timeout: 750ms
redis:
  addr: "redis:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("CONTACTS_CONFIG_PATH", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.False(t, cfg.Avatar.Enabled)
	assert.Equal(t, 750*time.Millisecond, cfg.Avatar.ProbeTimeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, "contacts.events", cfg.Redis.Channel)
	assert.Equal(t, "5432", cfg.DB.PostgresPort)

	dbCfg := cfg.DBServiceConfig()
	assert.Equal(t, db.DriverPostgres, dbCfg.Driver)
	assert.Contains(t, dbCfg.DSN, "db.internal:5432/people")
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":9000\"\n"), 0o600))
	t.Setenv("CONTACTS_CONFIG_PATH", path)
	t.Setenv("PORT", "7000")
	t.Setenv("AVATAR_ENRICH_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	t.Setenv("LOG_REDACTION_ENABLED", "off")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.False(t, cfg.Avatar.Enabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.Otel.SampleRatio)
	assert.False(t, cfg.LoggerConfig().Redact)

	t.Setenv("HTTP_ADDR", "127.0.0.1:7001")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7001", cfg.HTTP.Addr)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CONTACTS_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [oops"), 0o600))
	t.Setenv("CONTACTS_CONFIG_PATH", path)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	isolateConfig(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestDBServiceConfig(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.DBServiceConfig()
	assert.Equal(t, db.DriverSQLite, got.Driver)
	assert.Equal(t, "contacts.db", got.DSN)

	cfg.DB.Driver = "sqlite3"
	cfg.DB.DSN = "file::memory:?cache=shared"
	got = cfg.DBServiceConfig()
	assert.Equal(t, db.DriverSQLite, got.Driver)
	assert.Equal(t, "file::memory:?cache=shared", got.DSN)
}

func TestClientConfigs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Avatar.Size = 80
	cfg.Redis.Addr = "localhost:6379"

	assert.Equal(t, 80, cfg.GravatarConfig().Size)
	assert.Equal(t, "localhost:6379", cfg.EventBusConfig().Addr)
	assert.Equal(t, "contacts.events", cfg.EventBusConfig().Channel)
}
