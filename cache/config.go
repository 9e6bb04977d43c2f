package cache

import "time"

// Config represents cache configuration
type Config struct {
	GoCache GoCacheConfig `yaml:"go_cache"`
	Redis   RedisConfig   `yaml:"redis"`
}

// GoCacheConfig configuration for in-memory go-cache
type GoCacheConfig struct {
	// DefaultExpiration default expiration time for cache items
	// If 0, items never expire by default
	DefaultExpiration time.Duration `yaml:"default_expiration"`

	// CleanupInterval interval for cleaning up expired items
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	Enabled bool `yaml:"enabled"`
}

// RedisConfig configures the shared L2 cache
type RedisConfig struct {
	Enabled bool `yaml:"enabled"`
	// URL in redis://[:password@]host:port/db form
	URL       string        `yaml:"url"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() Config {
	return Config{
		GoCache: GoCacheConfig{
			DefaultExpiration: 30 * time.Second,
			CleanupInterval:   time.Minute,
			Enabled:           true,
		},
		Redis: RedisConfig{
			KeyPrefix: "wallet-aggregator:",
			TTL:       time.Minute,
		},
	}
}
