package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// chdirTemp runs the test from an empty directory so no config.yaml is found
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.ShutdownTimeout != 10*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Catalog.SimulateLatency {
			t.Error("Catalog.SimulateLatency = true, want false")
		}
		if cfg.Catalog.BarcodeResults != 2 || cfg.Catalog.ImageResults != 3 {
			t.Errorf("Catalog results = %d/%d, want 2/3", cfg.Catalog.BarcodeResults, cfg.Catalog.ImageResults)
		}
		if cfg.Favorites.Store != "pebble" {
			t.Errorf("Favorites.Store = %s, want pebble", cfg.Favorites.Store)
		}
		if cfg.Favorites.Key != "smartbuy360-favorites" {
			t.Errorf("Favorites.Key = %s, want smartbuy360-favorites", cfg.Favorites.Key)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 20 || cfg.RateLimit.Burst != 40 {
			t.Errorf("RateLimit = %+v, want 20/40", cfg.RateLimit)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("SMARTBUY_SERVER_PORT", "9090")
		t.Setenv("SMARTBUY_SERVER_ENVIRONMENT", "production")
		t.Setenv("SMARTBUY_CATALOG_SIMULATE_LATENCY", "true")
		t.Setenv("SMARTBUY_FAVORITES_STORE", "memory")
		t.Setenv("SMARTBUY_CACHE_TTL", "1h")
		t.Setenv("SMARTBUY_RATELIMIT_PER_IP", "200")
		t.Setenv("SMARTBUY_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if !cfg.Catalog.SimulateLatency {
			t.Error("Catalog.SimulateLatency = false, want true")
		}
		if cfg.Favorites.Store != "memory" {
			t.Errorf("Favorites.Store = %s, want memory", cfg.Favorites.Store)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("reads config.yaml from the working directory", func(t *testing.T) {
		dir := chdirTemp(t)
		yaml := "server:\n  port: \"7070\"\ncatalog:\n  image_results: 5\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatalf("write config.yaml: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Catalog.ImageResults != 5 {
			t.Errorf("Catalog.ImageResults = %d, want 5", cfg.Catalog.ImageResults)
		}
	})

	t.Run("explicit viper values win over defaults", func(t *testing.T) {
		chdirTemp(t)
		v := viper.New()
		v.Set("favorites.path", "/tmp/favs")

		cfg, err := LoadWith(v)
		if err != nil {
			t.Fatalf("LoadWith() error = %v, want nil", err)
		}
		if cfg.Favorites.Path != "/tmp/favs" {
			t.Errorf("Favorites.Path = %s, want /tmp/favs", cfg.Favorites.Path)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("SMARTBUY_CACHE_TYPE", "redis")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "cache type") {
			t.Errorf("Load() error = %v, want cache type error", err)
		}
	})
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Catalog:   CatalogConfig{BarcodeResults: 2, ImageResults: 3, MaxImageBytes: 1024},
		Favorites: FavoritesConfig{Store: "pebble", Path: "data", Key: "k"},
		Cache:     CacheConfig{Type: "memory", TTL: time.Minute},
		RateLimit: RateLimitConfig{PerIP: 1, Burst: 1},
		Log:       LogConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "cache disabled needs no ttl", mutate: func(c *Config) { c.Cache = CacheConfig{Type: "none"} }},
		{name: "memory favorites need no path", mutate: func(c *Config) { c.Favorites.Store, c.Favorites.Path = "memory", "" }},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "port"},
		{name: "bad cache type", mutate: func(c *Config) { c.Cache.Type = "redis" }, wantErr: "cache type"},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "ttl"},
		{name: "bad favorites store", mutate: func(c *Config) { c.Favorites.Store = "sqlite" }, wantErr: "favorites store"},
		{name: "pebble without path", mutate: func(c *Config) { c.Favorites.Path = "" }, wantErr: "favorites path"},
		{name: "empty key", mutate: func(c *Config) { c.Favorites.Key = "" }, wantErr: "favorites key"},
		{name: "zero barcode results", mutate: func(c *Config) { c.Catalog.BarcodeResults = 0 }, wantErr: "result counts"},
		{name: "zero image bytes", mutate: func(c *Config) { c.Catalog.MaxImageBytes = 0 }, wantErr: "max_image_bytes"},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: "rate limit"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		t.Run(env, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Environment = env
			cfg.Log.Level = "warn"

			lg, err := NewLogger(cfg)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if lg.Core().Enabled(-1) {
				t.Error("debug enabled, want warn level")
			}
		})
	}
}
