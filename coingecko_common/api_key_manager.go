package coingecko_common

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/config"
)

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

func (k KeyType) String() string {
	switch k {
	case ProKey:
		return "pro"
	case DemoKey:
		return "demo"
	default:
		return "none"
	}
}

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// IAPIKeyManager defines the interface for API key management
type IAPIKeyManager interface {
	// GetAvailableKeys returns usable keys in preference order: pro keys not
	// in backoff (a lone pro key is always included), demo keys not in
	// backoff, then the empty "no key" entry.
	GetAvailableKeys() []APIKey

	// MarkKeyAsFailed puts a key in backoff
	MarkKeyAsFailed(key string)
}

// APIKeyManager implements IAPIKeyManager for CoinGecko
type APIKeyManager struct {
	apiTokens   *config.APITokens
	lastFailed  map[string]time.Time
	backoffTime time.Duration
	logger      *zap.Logger
	mu          sync.RWMutex
}

// NewAPIKeyManager creates a new API key manager
func NewAPIKeyManager(apiTokens *config.APITokens, logger *zap.Logger) *APIKeyManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIKeyManager{
		apiTokens:   apiTokens,
		lastFailed:  make(map[string]time.Time),
		backoffTime: 5 * time.Minute,
		logger:      logger.Named("api-keys"),
	}
}

func (m *APIKeyManager) inBackoffLocked(key string) bool {
	lastFailTime, exists := m.lastFailed[key]
	return exists && time.Since(lastFailTime) < m.backoffTime
}

// GetAvailableKeys returns a list of available API keys
func (m *APIKeyManager) GetAvailableKeys() []APIKey {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []APIKey
	if m.apiTokens != nil {
		pro := m.apiTokens.Tokens
		for _, key := range pro {
			if len(pro) == 1 || !m.inBackoffLocked(key) {
				keys = append(keys, APIKey{Key: key, Type: ProKey})
			}
		}
		for _, key := range m.apiTokens.DemoTokens {
			if !m.inBackoffLocked(key) {
				keys = append(keys, APIKey{Key: key, Type: DemoKey})
			}
		}
	}

	return append(keys, APIKey{Key: "", Type: NoKey})
}

// PreferredKey returns the first available key
func (m *APIKeyManager) PreferredKey() APIKey {
	return m.GetAvailableKeys()[0]
}

// MarkKeyAsFailed marks a key as non-working for the backoff period
func (m *APIKeyManager) MarkKeyAsFailed(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFailed[key] = time.Now()
	m.logger.Warn("Marked key as failed", zap.Duration("backoff", m.backoffTime))
}
