package balances

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
)

// Backend fetches balances for the currencies it is registered for
type Backend interface {
	Name() string
	Balance(ctx context.Context, currency, address string) (float64, error)
}

// Router dispatches balance lookups to a backend by currency
type Router struct {
	mu       sync.RWMutex
	backends map[string]Backend
	logger   *zap.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		backends: make(map[string]Backend),
		logger:   logger.Named("balances"),
	}
}

// Register routes the given currencies to backend
func (r *Router) Register(backend Backend, currencies ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range currencies {
		r.backends[strings.ToLower(c)] = backend
	}
	r.logger.Debug("Registered balance backend",
		zap.String("backend", backend.Name()),
		zap.Strings("currencies", currencies))
}

// Currencies returns the currencies with a registered backend
func (r *Router) Currencies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.backends))
	for c := range r.backends {
		out = append(out, c)
	}
	return out
}

// GetBalance implements interfaces.BalanceLookupService
func (r *Router) GetBalance(ctx context.Context, currency, address string, _ interfaces.Options) (float64, error) {
	r.mu.RLock()
	backend, ok := r.backends[strings.ToLower(currency)]
	r.mu.RUnlock()

	if !ok {
		return 0, &interfaces.BalanceLookupError{
			Currency: currency,
			Address:  address,
			Err:      interfaces.ErrUnsupportedCurrency,
		}
	}

	balance, err := backend.Balance(ctx, strings.ToLower(currency), address)
	if err != nil {
		return 0, &interfaces.BalanceLookupError{
			Currency: currency,
			Address:  address,
			Source:   backend.Name(),
			Err:      err,
		}
	}
	return balance, nil
}

// NewRouterFromConfig registers every backend the configuration enables.
// Solana and Ethereum need an RPC URL; BlockCypher serves its coin list.
func NewRouterFromConfig(ctx context.Context, cfg config.BalancesConfig, logger *zap.Logger) (*Router, error) {
	router := NewRouter(logger)

	if len(cfg.BlockCypher.Coins) > 0 {
		router.Register(NewBlockCypher(cfg.BlockCypher), cfg.BlockCypher.Coins...)
	}
	if cfg.Solana.RPCURL != "" {
		router.Register(NewSolana(cfg.Solana.RPCURL), "sol")
	}
	if cfg.Ethereum.RPCURL != "" {
		eth, err := DialEthereum(ctx, cfg.Ethereum.RPCURL)
		if err != nil {
			return nil, err
		}
		router.Register(eth, "eth")
	}

	return router, nil
}
