package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig controls how the catalog service answers
type CatalogConfig struct {
	SimulateLatency bool  `mapstructure:"simulate_latency"`
	BarcodeResults  int   `mapstructure:"barcode_results"`
	ImageResults    int   `mapstructure:"image_results"`
	MaxImageBytes   int64 `mapstructure:"max_image_bytes"`
}

// FavoritesConfig selects where the CLI keeps saved products
type FavoritesConfig struct {
	Store string `mapstructure:"store"` // "memory" or "pebble"
	Path  string `mapstructure:"path"`
	Key   string `mapstructure:"key"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per second
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration through v, so callers can bind flags first
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartbuy/")

	// SMARTBUY_SERVER_PORT overrides server.port
	v.SetEnvPrefix("SMARTBUY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.simulate_latency", false)
	v.SetDefault("catalog.barcode_results", 2)
	v.SetDefault("catalog.image_results", 3)
	v.SetDefault("catalog.max_image_bytes", 10<<20)

	// Favorites defaults
	v.SetDefault("favorites.store", "pebble")
	v.SetDefault("favorites.path", ".smartbuy/favorites")
	v.SetDefault("favorites.key", "smartbuy360-favorites")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 20)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set SMARTBUY_SERVER_PORT)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "memory" && config.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got: %s", config.Cache.TTL)
	}

	if config.Favorites.Store != "memory" && config.Favorites.Store != "pebble" {
		return fmt.Errorf("favorites store must be 'memory' or 'pebble', got: %s", config.Favorites.Store)
	}
	if config.Favorites.Store == "pebble" && config.Favorites.Path == "" {
		return fmt.Errorf("favorites path is required when store is 'pebble'")
	}
	if config.Favorites.Key == "" {
		return fmt.Errorf("favorites key must not be empty")
	}

	if config.Catalog.BarcodeResults <= 0 || config.Catalog.ImageResults <= 0 {
		return fmt.Errorf("catalog result counts must be positive, got barcode=%d image=%d",
			config.Catalog.BarcodeResults, config.Catalog.ImageResults)
	}
	if config.Catalog.MaxImageBytes <= 0 {
		return fmt.Errorf("catalog max_image_bytes must be positive, got: %d", config.Catalog.MaxImageBytes)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit per_ip and burst must be positive, got per_ip=%d burst=%d",
			config.RateLimit.PerIP, config.RateLimit.Burst)
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	return nil
}

// NewLogger builds the process logger: JSON in production, console otherwise
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Server.Environment == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
