package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Analytics.CacheTTL)
	assert.Equal(t, time.Second, cfg.Analytics.SlowQueryThreshold)
	assert.Equal(t, 6, cfg.Analytics.LookbackMonths)
	assert.Equal(t, "Local", cfg.Analytics.Timezone)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, StorageMySQL, cfg.Storage)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage = "memory"

[mysql]
dsn = "user:pass@tcp(db:3306)/shop?parseTime=true"

[redis]
addr = "redis:6379"

[http]
port = "9000"
allowed_origins = ["https://dashboard.example.com"]

[analytics]
cache_ttl = "15m"
timezone = "Europe/Riga"
`), 0o600))

	t.Setenv("ANALYTICS_SLOW_QUERY_THRESHOLD", "250ms")
	t.Setenv("AUTH_JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "user:pass@tcp(db:3306)/shop?parseTime=true", cfg.DB.DSN)
	require.NotNil(t, cfg.DB.Location)
	assert.Equal(t, "Europe/Riga", cfg.DB.Location.String())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "9100", cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Analytics.CacheTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Analytics.SlowQueryThreshold)
	assert.Equal(t, "Europe/Riga", cfg.Analytics.Timezone)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
}

func TestLoadConfigDSNFromParts(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "shop")
	t.Setenv("MYSQL_PASSWORD", "pw")
	t.Setenv("MYSQL_DATABASE", "analytics")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "shop:pw@tcp(db.internal:3306)/analytics?charset=utf8mb4&parseTime=true", cfg.DB.DSN)
	assert.Equal(t, time.Local, cfg.DB.Location)
}

func TestLoadConfigRejectsBadTimezone(t *testing.T) {
	t.Setenv("ANALYTICS_TIMEZONE", "Mars/Olympus")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadConfigUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
