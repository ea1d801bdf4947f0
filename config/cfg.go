package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/jekabolt/shop-analytics/internal/analytics"
	httpapi "github.com/jekabolt/shop-analytics/internal/api/http"
	"github.com/jekabolt/shop-analytics/internal/cache"
	"github.com/jekabolt/shop-analytics/internal/store"
	"github.com/jekabolt/shop-analytics/log"
	"github.com/spf13/viper"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// AuthConfig configures dashboard token verification.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Config represents the global configuration for the service.
type Config struct {
	DB        store.Config     `mapstructure:"mysql"`
	Redis     cache.Config     `mapstructure:"redis"`
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Auth      AuthConfig       `mapstructure:"auth"`
	Analytics analytics.Config `mapstructure:"analytics"`
	// Storage selects the order store: "mysql" (default) or "memory".
	Storage string `mapstructure:"storage"`
}

func setDefaults(v *viper.Viper) {
	d := analytics.DefaultConfig()
	v.SetDefault("analytics.cache_ttl", d.CacheTTL)
	v.SetDefault("analytics.slow_query_threshold", d.SlowQueryThreshold)
	v.SetDefault("analytics.customer_lookback_months", d.LookbackMonths)
	v.SetDefault("analytics.timezone", d.Timezone)
	v.SetDefault("http.port", "8081")
	v.SetDefault("mysql.max_open_connections", 10)
	v.SetDefault("mysql.max_idle_connections", 5)
	v.SetDefault("storage", StorageMySQL)
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Env vars use underscores and uppercase, e.g., MYSQL_DSN, AUTH_JWT_SECRET
// Nested config keys use double underscore, e.g., MYSQL__DSN for mysql.dsn
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/shop-analytics")
		v.AddConfigPath("/etc/shop-analytics")
		// config file is optional
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	if config.DB.DSN == "" {
		config.DB.DSN = dsnFromEnv()
	}
	loc, err := config.Analytics.Location()
	if err != nil {
		return nil, err
	}
	config.DB.Location = loc

	switch config.Storage {
	case StorageMySQL, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage %q", config.Storage)
	}
	return &config, nil
}

// dsnFromEnv builds a MySQL DSN from MYSQL_HOST style variables.
func dsnFromEnv() string {
	host := os.Getenv("MYSQL_HOST")
	port := os.Getenv("MYSQL_PORT")
	user := os.Getenv("MYSQL_USER")
	password := os.Getenv("MYSQL_PASSWORD")
	database := os.Getenv("MYSQL_DATABASE")
	if host == "" || user == "" || database == "" {
		return ""
	}
	if port == "" {
		port = "3306"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true", user, password, host, port, database)
	if os.Getenv("MYSQL_TLS_CA_PATH") != "" {
		dsn += "&tls=custom"
	}
	return dsn
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (MYSQL__DSN) and flat keys (MYSQL_DSN)
func bindEnvVars(v *viper.Viper) {
	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	v.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Redis
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.dial_timeout", "REDIS_DIAL_TIMEOUT")
	v.BindEnv("redis.sweep_interval", "REDIS_SWEEP_INTERVAL")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.rate_limit", "HTTP_RATE_LIMIT")
	v.BindEnv("http.shutdown_timeout", "HTTP_SHUTDOWN_TIMEOUT")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")

	// Analytics
	v.BindEnv("analytics.cache_ttl", "ANALYTICS_CACHE_TTL")
	v.BindEnv("analytics.slow_query_threshold", "ANALYTICS_SLOW_QUERY_THRESHOLD")
	v.BindEnv("analytics.customer_lookback_months", "ANALYTICS_CUSTOMER_LOOKBACK_MONTHS")
	v.BindEnv("analytics.timezone", "ANALYTICS_TIMEZONE")

	v.BindEnv("storage", "STORAGE")
}
