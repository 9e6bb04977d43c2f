package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/metrics"
)

// Service implements Cache with go-cache as L1 and an optional Redis L2
type Service struct {
	goCache *GoCache
	redis   *RedisCache
	config  Config
	logger  *zap.Logger
	metrics *metrics.MetricsWriter
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRedisClient uses client as L2 instead of dialing config.Redis.URL on Start
func WithRedisClient(client *redis.Client) ServiceOption {
	return func(s *Service) {
		if client != nil {
			s.redis = NewRedisCache(client, s.config.Redis.KeyPrefix, s.config.Redis.TTL)
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.Named("cache")
		}
	}
}

// NewService creates a new cache service with the given configuration
func NewService(config Config, opts ...ServiceOption) *Service {
	var goCache *GoCache
	if config.GoCache.Enabled {
		goCache = NewGoCache(config.GoCache.DefaultExpiration, config.GoCache.CleanupInterval)
	}

	s := &Service{
		goCache: goCache,
		config:  config,
		logger:  zap.NewNop(),
		metrics: metrics.NewMetricsWriter(metrics.ServicePriceCache),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start implements core.Interface. It connects to Redis when L2 is enabled
// and no client was injected.
func (s *Service) Start(ctx context.Context) error {
	if s.redis != nil || !s.config.Redis.Enabled {
		return nil
	}

	client, err := NewRedisClient(ctx, s.config.Redis.URL)
	if err != nil {
		return fmt.Errorf("cache l2: %w", err)
	}
	s.redis = NewRedisCache(client, s.config.Redis.KeyPrefix, s.config.Redis.TTL)
	s.logger.Info("Redis cache connected", zap.String("prefix", s.config.Redis.KeyPrefix))
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.goCache != nil {
		s.goCache.Clear()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

// Get looks keys up in L1, then in L2 for whatever L1 missed. L2 hits are
// copied back into L1.
func (s *Service) Get(ctx context.Context, keys []string) (map[string][]byte, []string, error) {
	found := make(map[string][]byte, len(keys))
	missing := keys

	if s.goCache != nil {
		found, missing = s.goCache.Get(keys)
	}

	if s.redis != nil && len(missing) > 0 {
		remote, stillMissing, err := s.redis.Get(ctx, missing)
		if err != nil {
			return nil, nil, err
		}
		if s.goCache != nil && len(remote) > 0 {
			s.goCache.Set(remote, 0)
		}
		for key, value := range remote {
			found[key] = value
		}
		missing = stillMissing
	}

	for range found {
		s.metrics.RecordCacheLookup(true)
	}
	for range missing {
		s.metrics.RecordCacheLookup(false)
	}

	return found, missing, nil
}

// Set stores data in every enabled level
func (s *Service) Set(ctx context.Context, data map[string][]byte, ttl time.Duration) error {
	if len(data) == 0 {
		return nil
	}
	if s.goCache != nil {
		s.goCache.Set(data, ttl)
		s.metrics.RecordCacheSize(s.goCache.ItemCount())
	}
	if s.redis != nil {
		return s.redis.Set(ctx, data, ttl)
	}
	return nil
}

// GetOrLoad retrieves data by keys from the cache levels or loads them using LoaderFunc
func (s *Service) GetOrLoad(ctx context.Context, keys []string, loader LoaderFunc, loadOnlyMissingKeys bool, ttl time.Duration) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	result, missingKeys, err := s.Get(ctx, keys)
	if err != nil {
		// L2 errors degrade to a full load instead of failing the caller
		s.logger.Warn("Cache read failed, loading from source", zap.Error(err))
		result, missingKeys = make(map[string][]byte), keys
	}

	if len(missingKeys) == 0 {
		return result, nil
	}

	keysToLoad := missingKeys
	if !loadOnlyMissingKeys {
		keysToLoad = keys
	}

	loaded, err := loader(keysToLoad)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	if err := s.Set(ctx, loaded, ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.Error(err))
	}

	for key, value := range loaded {
		result[key] = value
	}

	if loadOnlyMissingKeys {
		return result, nil
	}

	final := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := result[key]; ok {
			final[key] = value
		}
	}
	return final, nil
}

// Stats returns statistics about the cache service
func (s *Service) Stats() ServiceStats {
	stats := ServiceStats{
		Enabled:      s.config.GoCache.Enabled,
		RedisEnabled: s.redis != nil,
	}
	if s.goCache != nil {
		stats.GoCacheItems = s.goCache.ItemCount()
	}
	return stats
}

// ServiceStats represents cache service statistics
type ServiceStats struct {
	GoCacheItems int  `json:"items"`
	Enabled      bool `json:"enabled"`
	RedisEnabled bool `json:"redis_enabled"`
}

// Delete removes items from every level
func (s *Service) Delete(ctx context.Context, keys []string) error {
	if s.goCache != nil {
		s.goCache.Delete(keys)
	}
	if s.redis != nil {
		return s.redis.Delete(ctx, keys)
	}
	return nil
}
