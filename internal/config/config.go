package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config holds everything the preview server needs at startup. Values come
// from an optional YAML file, with environment variables taking precedence
// so deployments can override single fields without shipping a new file.
type Config struct {
	// Port the HTTP server listens on.
	Port string `yaml:"port"`

	// DatabaseURL is the Postgres DSN for the location metadata store.
	DatabaseURL string `yaml:"database_url"`

	// ExternalBaseURL is the public origin used when building redirect
	// URLs for alias hits, e.g. "https://nav.example.com".
	ExternalBaseURL string `yaml:"external_base_url"`

	// TileURLTemplate is the tile server endpoint with {z}/{x}/{y}
	// placeholders.
	TileURLTemplate string `yaml:"tile_url_template"`

	// TileCacheDir is where fetched tiles are persisted. Created at
	// startup if absent.
	TileCacheDir string `yaml:"tile_cache_dir"`

	// TileRateLimit caps outbound tile fetches per second so a burst of
	// cache misses cannot hammer the tile provider.
	TileRateLimit float64 `yaml:"tile_rate_limit"`

	// CORSOrigins is the allow-list echoed back by the CORS middleware.
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default values for everything that has a sensible one. DATABASE_URL has
// no default on purpose: connecting to the wrong database silently is worse
// than failing to start.
func defaults() Config {
	return Config{
		Port:            "5070",
		ExternalBaseURL: "https://nav.example.com",
		TileURLTemplate: "https://tiles.example.com/styles/osm/{z}/{x}/{y}.png",
		TileCacheDir:    "/tmp/tiles",
		TileRateLimit:   50,
	}
}

// Load reads the YAML config at path (skipped if path is empty or the file
// does not exist), then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("EXTERNAL_BASE_URL"); v != "" {
		cfg.ExternalBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TILE_URL_TEMPLATE"); v != "" {
		cfg.TileURLTemplate = v
	}
	if v := os.Getenv("TILE_CACHE_DIR"); v != "" {
		cfg.TileCacheDir = v
	}
	if v := os.Getenv("TILE_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.TileRateLimit = f
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
		for i := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
		}
	}
}
