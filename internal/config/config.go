// Package config defines service configuration and its defaults.
//
// Keys are flat snake_case so the same name works in YAML and, upper-cased
// with the BIRDHUNT_ prefix, in the environment.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// View cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFile, when set, receives a rotated copy of the log stream.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone names the IANA zone weeks are computed in. Empty means local.
	Timezone string `koanf:"timezone"`

	StoreDriver string `koanf:"store_driver"`
	StorePath   string `koanf:"store_path"`
	SQLiteDSN   string `koanf:"sqlite_dsn"`
	PostgresDSN string `koanf:"postgres_dsn"`

	ViewCache     string `koanf:"view_cache"`
	ViewCacheSize int    `koanf:"view_cache_size"`
	RedisAddr     string `koanf:"redis_addr"`

	OpenAIAPIKey        string `koanf:"openai_api_key"`
	OpenAIBaseURL       string `koanf:"openai_base_url"`
	OpenAIModel         string `koanf:"openai_model"`
	ClassifierTimeoutMS int    `koanf:"classifier_timeout_ms"`
	ClassifierRetries   int    `koanf:"classifier_retries"`
	ClassifierCacheSize int    `koanf:"classifier_cache_size"`

	// IdentifyRatePerMinute and IdentifyBurst bound /identify per client.
	IdentifyRatePerMinute int `koanf:"identify_rate_per_minute"`
	IdentifyBurst         int `koanf:"identify_burst"`

	// EventQueueSize bounds the in-memory notification queue.
	EventQueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of notification workers.
	WorkerCount int `koanf:"worker_count"`

	// KafkaBrokers is a comma separated broker list. Empty disables publishing.
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`

	LiveUpdates bool `koanf:"live_updates"`

	// SpeciesPoints re-points catalog species; values must be tier values.
	SpeciesPoints map[string]int `koanf:"species_points"`

	// MaxLeaderboardLimit caps ?limit on leaderboard endpoints.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		StoreDriver:           StoreFile,
		StorePath:             "submissions.json",
		SQLiteDSN:             "birdhunt.db",
		ViewCache:             CacheMemory,
		ViewCacheSize:         1024,
		RedisAddr:             "localhost:6379",
		OpenAIBaseURL:         "https://api.openai.com/v1",
		OpenAIModel:           "gpt-4o-mini",
		ClassifierTimeoutMS:   8000,
		ClassifierRetries:     2,
		ClassifierCacheSize:   512,
		IdentifyRatePerMinute: 30,
		IdentifyBurst:         5,
		EventQueueSize:        1024,
		WorkerCount:           runtime.NumCPU(),
		KafkaTopic:            "birdhunt.sightings",
		LiveUpdates:           true,
		MaxLeaderboardLimit:   100,
	}
}

// Brokers splits KafkaBrokers into trimmed, non-empty addresses.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// ClassifierTimeout returns the per-call classifier deadline.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.ClassifierTimeoutMS) * time.Millisecond
}

// Location resolves Timezone, falling back to time.Local when empty.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.ClassifierTimeoutMS <= 0:
		return fmt.Errorf("%w: classifier_timeout_ms must be positive", ErrInvalidConfig)
	case c.ClassifierRetries < 0:
		return fmt.Errorf("%w: classifier_retries must not be negative", ErrInvalidConfig)
	case c.IdentifyRatePerMinute <= 0 || c.IdentifyBurst <= 0:
		return fmt.Errorf("%w: identify rate and burst must be positive", ErrInvalidConfig)
	}

	switch c.StoreDriver {
	case StoreFile:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store_path required for file store", ErrInvalidConfig)
		}
	case StoreSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("%w: sqlite_dsn required for sqlite store", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn required for postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}

	switch c.ViewCache {
	case CacheNone:
	case CacheMemory:
		if c.ViewCacheSize <= 0 {
			return fmt.Errorf("%w: view_cache_size must be positive", ErrInvalidConfig)
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr required for redis cache", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown view_cache %q", ErrInvalidConfig, c.ViewCache)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
