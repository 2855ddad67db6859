// Package config loads service settings from an optional config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Package sources.
const (
	PackageSourceSpanner = "spanner"
	PackageSourceMongo   = "mongo"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	HTTPPort string `mapstructure:"HTTP_PORT"`

	SpannerDatabase string `mapstructure:"SPANNER_DATABASE"`

	// Package catalog source.
	PackageSource string `mapstructure:"PACKAGE_SOURCE"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis package cache. Empty address disables it.
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	PackageCacheTTL time.Duration `mapstructure:"PACKAGE_CACHE_TTL"`

	// Price calculation.
	DebounceWindow time.Duration `mapstructure:"PRICING_DEBOUNCE_WINDOW"`
	FetchTimeout   time.Duration `mapstructure:"PRICING_FETCH_TIMEOUT"`
	PackageTTL     time.Duration `mapstructure:"PRICING_PACKAGE_TTL"`
	StrictMode     bool          `mapstructure:"PRICING_STRICT_MODE"`

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

var keys = map[string]interface{}{
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"HTTP_PORT":               "8080",
	"SPANNER_DATABASE":        "projects/test-project/instances/dev-instance/databases/quote-pricing-db",
	"PACKAGE_SOURCE":          PackageSourceSpanner,
	"MONGO_URI":               "mongodb://localhost:27017",
	"MONGO_DATABASE":          "catalog",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"PACKAGE_CACHE_TTL":       "10m",
	"PRICING_DEBOUNCE_WINDOW": "500ms",
	"PRICING_FETCH_TIMEOUT":   "3s",
	"PRICING_PACKAGE_TTL":     "30s",
	"PRICING_STRICT_MODE":     false,
	"RATE_LIMIT_PER_MINUTE":   200,
}

// Load reads config.yaml from the working directory or ./config when present, then
// lets environment variables override every key.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range keys {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.PackageSource {
	case PackageSourceSpanner:
	case PackageSourceMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("config: MONGO_URI and MONGO_DATABASE are required when PACKAGE_SOURCE=mongo")
		}
	default:
		return fmt.Errorf("config: unknown PACKAGE_SOURCE %q", c.PackageSource)
	}

	if c.SpannerDatabase == "" {
		return errors.New("config: SPANNER_DATABASE is required")
	}
	if c.DebounceWindow < 0 || c.FetchTimeout <= 0 {
		return errors.New("config: PRICING_DEBOUNCE_WINDOW must not be negative and PRICING_FETCH_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
