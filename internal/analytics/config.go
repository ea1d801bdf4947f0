package analytics

import (
	"fmt"
	"time"
)

// Config holds report generation settings.
type Config struct {
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	LookbackMonths     int           `mapstructure:"customer_lookback_months"`
	// Timezone is an IANA name used for calendar days and hours, "Local" by default.
	Timezone string `mapstructure:"timezone"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		CacheTTL:           time.Hour,
		SlowQueryThreshold: time.Second,
		LookbackMonths:     6,
		Timezone:           "Local",
	}
}

func (c *Config) withDefaults() {
	d := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.SlowQueryThreshold <= 0 {
		c.SlowQueryThreshold = d.SlowQueryThreshold
	}
	if c.LookbackMonths <= 0 {
		c.LookbackMonths = d.LookbackMonths
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
