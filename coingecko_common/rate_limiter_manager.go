package coingecko_common

import (
	"math"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/status-im/wallet-aggregator/config"
)

// IRateLimiterManager provides a way to get a rate limiter for a request URL
//
//go:generate mockgen -destination=mocks/rate_limiter_manager.go . IRateLimiterManager
type IRateLimiterManager interface {
	GetLimiterForURL(u *url.URL) *rate.Limiter
	SetConfig(cfg config.APIKeyConfig)
}

// Defaults in requests per minute, used when config is not provided
const (
	defaultProRPM   = 500
	defaultDemoRPM  = 30
	defaultNoKeyRPM = 30
)

type limiterKey struct {
	keyType KeyType
	key     string
}

// RateLimiterManager manages per-key rate limiters using APIKeyConfig
type RateLimiterManager struct {
	mu       sync.RWMutex
	limiters map[limiterKey]*rate.Limiter
	config   config.APIKeyConfig
	// hosts that get the keyless limiter when no key is in the query
	publicHosts map[string]bool
}

// NewRateLimiterManager creates a manager that limits keyless requests to
// the given hosts. With no hosts the CoinGecko API hosts are used.
func NewRateLimiterManager(cfg config.APIKeyConfig, publicHosts ...string) *RateLimiterManager {
	if len(publicHosts) == 0 {
		publicHosts = []string{"api.coingecko.com", "pro-api.coingecko.com"}
	}
	hosts := make(map[string]bool, len(publicHosts))
	for _, h := range publicHosts {
		hosts[h] = true
	}
	return &RateLimiterManager{
		limiters:    make(map[limiterKey]*rate.Limiter),
		config:      cfg,
		publicHosts: hosts,
	}
}

// SetConfig applies a new APIKeyConfig. Limiters of key types whose settings
// changed are rebuilt; the others keep their state.
func (m *RateLimiterManager) SetConfig(newCfg config.APIKeyConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldCfg := m.config
	m.config = newCfg

	for k := range m.limiters {
		if rateLimitFor(oldCfg, k.keyType) != rateLimitFor(newCfg, k.keyType) {
			m.limiters[k] = m.newLimiterLocked(k.keyType)
		}
	}
}

// GetLimiterForURL inspects the URL to determine key and type and returns appropriate limiter
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil {
		return nil
	}

	query := u.Query()
	if v := query.Get(proKeyParam); v != "" {
		return m.limiterFor(limiterKey{keyType: ProKey, key: v})
	}
	if v := query.Get(demoKeyParam); v != "" {
		return m.limiterFor(limiterKey{keyType: DemoKey, key: v})
	}
	if m.publicHosts[u.Hostname()] {
		return m.limiterFor(limiterKey{keyType: NoKey})
	}
	return nil
}

func (m *RateLimiterManager) limiterFor(k limiterKey) *rate.Limiter {
	m.mu.RLock()
	lim, ok := m.limiters[k]
	m.mu.RUnlock()
	if ok {
		return lim
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.limiters[k]; ok {
		return lim
	}
	lim = m.newLimiterLocked(k.keyType)
	m.limiters[k] = lim
	return lim
}

func (m *RateLimiterManager) newLimiterLocked(keyType KeyType) *rate.Limiter {
	rl := rateLimitFor(m.config, keyType)

	rpm := rl.RateLimitPerMinute
	if rpm <= 0 {
		rpm = defaultRPM(keyType)
	}
	limit := rate.Limit(float64(rpm) / 60.0)

	burst := rl.Burst
	if burst <= 0 {
		burst = defaultBurstForLimit(limit)
	}
	return rate.NewLimiter(limit, burst)
}

func rateLimitFor(cfg config.APIKeyConfig, keyType KeyType) config.RateLimit {
	switch keyType {
	case ProKey:
		return cfg.Pro
	case DemoKey:
		return cfg.Demo
	default:
		return cfg.NoKey
	}
}

func defaultRPM(keyType KeyType) int {
	switch keyType {
	case ProKey:
		return defaultProRPM
	case DemoKey:
		return defaultDemoRPM
	default:
		return defaultNoKeyRPM
	}
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
