package store

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNWithLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		dsn      string
		loc      *time.Location
		timeZone string
	}{
		{name: "named zone", dsn: "user:pass@tcp(db:3306)/shop?charset=utf8mb4", loc: ny, timeZone: "'America/New_York'"},
		{name: "utc", dsn: "user:pass@tcp(db:3306)/shop?parseTime=true", loc: time.UTC, timeZone: "'+00:00'"},
		{name: "local", dsn: "user:pass@tcp(db:3306)/shop?loc=UTC", loc: time.Local},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DSNWithLocation(tt.dsn, tt.loc)
			require.NoError(t, err)

			cfg, err := mysql.ParseDSN(out)
			require.NoError(t, err)
			assert.Equal(t, "user", cfg.User)
			assert.Equal(t, "shop", cfg.DBName)
			assert.True(t, cfg.ParseTime)
			assert.Equal(t, tt.loc.String(), cfg.Loc.String())
			if tt.timeZone == "" {
				assert.NotContains(t, cfg.Params, "time_zone")
			} else {
				assert.Equal(t, tt.timeZone, cfg.Params["time_zone"])
			}
		})
	}
}

func TestDSNWithLocationKeepsParams(t *testing.T) {
	out, err := DSNWithLocation("user:pass@tcp(db:3306)/shop?charset=utf8mb4&timeout=5s", time.UTC)
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestDSNWithLocationRejectsBadDSN(t *testing.T) {
	_, err := DSNWithLocation("user:pass@tcp(db:3306)shop", time.UTC)
	assert.Error(t, err)
}
