package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/cache"
	"github.com/status-im/wallet-aggregator/interfaces"
)

// SkipCacheOption in Options.Extra refreshes the cached entry: it is evicted
// and reloaded from the wrapped service
const SkipCacheOption = "skip_cache"

// Cached memoizes price results of the wrapped service
type Cached struct {
	next   interfaces.PriceLookupService
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next. A zero ttl uses the cache default expiration.
func NewCached(next interfaces.PriceLookupService, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("price-cache"),
	}
}

// CacheKey returns the cache key of a price lookup. Lookups pinned to a
// source are cached apart from unpinned ones.
func CacheKey(currency, fiat, source string) string {
	if source == "" {
		return fmt.Sprintf("price:%s:%s", currency, fiat)
	}
	return fmt.Sprintf("price:%s:%s:%s", currency, fiat, strings.ToLower(source))
}

// GetPrice implements interfaces.PriceLookupService
func (c *Cached) GetPrice(ctx context.Context, currency, fiat string, opts interfaces.Options) (interfaces.PriceResult, error) {
	key := CacheKey(currency, fiat, opts.String("source"))

	if opts.Bool(SkipCacheOption) {
		if err := c.cache.Delete(ctx, []string{key}); err != nil {
			c.logger.Warn("Evicting cached price failed", zap.String("key", key), zap.Error(err))
			return c.next.GetPrice(ctx, currency, fiat, opts)
		}
	}

	var lookupErr error
	data, err := c.cache.GetOrLoad(ctx, []string{key}, func(missing []string) (map[string][]byte, error) {
		result, err := c.next.GetPrice(ctx, currency, fiat, opts)
		if err != nil {
			lookupErr = err
			return nil, err
		}
		raw, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return map[string][]byte{key: raw}, nil
	}, true, c.ttl)
	if lookupErr != nil {
		// keep the service error type intact for callers
		return interfaces.PriceResult{}, lookupErr
	}
	if err != nil {
		return interfaces.PriceResult{}, &interfaces.PriceLookupError{Currency: currency, Fiat: fiat, Err: err}
	}

	var result interfaces.PriceResult
	if err := json.Unmarshal(data[key], &result); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return c.next.GetPrice(ctx, currency, fiat, opts)
	}
	return result, nil
}
