package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures environment driven configuration values for the course
// scheduling service.
type Config struct {
	HTTPPort         int           `env:"SCHEDULER_HTTP_PORT" envDefault:"8080"`
	SQLitePath       string        `env:"SCHEDULER_SQLITE_PATH" envDefault:"scheduler.db"`
	WarningCacheTTL  time.Duration `env:"SCHEDULER_WARNING_CACHE_TTL" envDefault:"30s"`
	WarningCacheSize int           `env:"SCHEDULER_WARNING_CACHE_SIZE" envDefault:"128"`
}

// Load parses configuration values from the current process environment and
// validates them.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	var invalid []string
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, "SCHEDULER_HTTP_PORT")
	}
	if strings.TrimSpace(cfg.SQLitePath) == "" {
		invalid = append(invalid, "SCHEDULER_SQLITE_PATH")
	}
	if cfg.WarningCacheTTL <= 0 {
		invalid = append(invalid, "SCHEDULER_WARNING_CACHE_TTL")
	}
	if cfg.WarningCacheSize <= 0 {
		invalid = append(invalid, "SCHEDULER_WARNING_CACHE_SIZE")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
