package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/aggregator"
	"github.com/status-im/wallet-aggregator/balances"
	"github.com/status-im/wallet-aggregator/binance"
	"github.com/status-im/wallet-aggregator/cache"
	"github.com/status-im/wallet-aggregator/coingecko_prices"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/events"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
	"github.com/status-im/wallet-aggregator/prices"
)

// ErrPriceFeedNotReady is returned when a streaming price feed delivered
// nothing before the deadline
var ErrPriceFeedNotReady = errors.New("price feed not ready")

// App holds the wired services
type App struct {
	Registry   *Registry
	Aggregator *aggregator.Aggregator
	Prices     interfaces.PriceLookupService
	Balances   *balances.Router
	Cache      *cache.Service

	// Binance is nil unless it is a configured price provider
	Binance *binance.Service

	logger *zap.Logger
}

// Setup creates and registers all services. Nothing is started.
func Setup(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := NewRegistry(logger)
	app := &App{Registry: registry, logger: logger}

	// Cache service backs the price cache decorator
	app.Cache = cache.NewService(cfg.Cache, cache.WithLogger(logger))
	registry.Register(app.Cache)

	providers := make([]prices.Provider, 0, len(cfg.Prices.Providers))
	for _, name := range cfg.Prices.Providers {
		switch strings.ToLower(name) {
		case config.ProviderCoingecko:
			provider := coingecko_prices.NewProviderFromConfig(cfg, logger)
			registry.AddHealthCheck(provider)
			providers = append(providers, provider)
		case config.ProviderBinance:
			app.Binance = binance.NewService(cfg.Binance, logger)
			registry.Register(app.Binance)
			providers = append(providers, app.Binance)
		default:
			return nil, fmt.Errorf("unknown price provider %q", name)
		}
	}

	var priceService interfaces.PriceLookupService = prices.NewChain(logger, providers...)
	if cfg.Prices.CacheTTL > 0 {
		priceService = prices.NewCached(priceService, app.Cache, cfg.Prices.CacheTTL, logger)
	}
	app.Prices = priceService

	router, err := balances.NewRouterFromConfig(ctx, cfg.Balances, logger)
	if err != nil {
		return nil, fmt.Errorf("balance backends: %w", err)
	}
	app.Balances = router

	if app.Binance != nil {
		// only currencies with a balance backend are ever priced
		app.Binance.SetWatchList(router.Currencies())
		feedMetrics := metrics.NewMetricsWriter(metrics.ServiceBinance)
		app.Binance.SubscribeOnQuotesUpdate().Watch(ctx, func(u events.FeedUpdate) {
			feedMetrics.RecordFeedUpdate(u.Symbols, u.At)
		})
	}

	opts := []aggregator.Option{
		aggregator.WithLogger(logger),
		aggregator.WithRecorder(metrics.NewAggregationRecorder()),
	}
	if cfg.Aggregator.PoolSize > 0 {
		opts = append(opts, aggregator.WithPoolSizer(aggregator.FixedPoolSize(cfg.Aggregator.PoolSize)))
	}
	app.Aggregator = aggregator.New(app.Prices, app.Balances, opts...)

	logger.Info("Services configured",
		zap.Strings("price_providers", cfg.Prices.Providers),
		zap.Strings("balance_currencies", router.Currencies()),
		zap.Bool("price_cache", cfg.Prices.CacheTTL > 0))

	return app, nil
}

// WaitForPriceFeeds blocks until every streaming price feed delivered its
// first update, or fails with ErrPriceFeedNotReady after timeout
func (a *App) WaitForPriceFeeds(ctx context.Context, timeout time.Duration) error {
	if a.Binance == nil || a.Binance.Healthy() {
		return nil
	}

	sub := a.Binance.SubscribeOnQuotesUpdate()
	defer sub.Cancel()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for !a.Binance.Healthy() {
		select {
		case <-sub.Updates():
		case <-ctx.Done():
			a.logger.Warn("Price feed not ready", zap.String("feed", a.Binance.Name()), zap.Duration("timeout", timeout))
			return fmt.Errorf("%s: %w", a.Binance.Name(), ErrPriceFeedNotReady)
		}
	}
	if u, ok := a.Binance.LastUpdate(); ok {
		a.logger.Info("Price feed ready", zap.String("feed", u.Feed), zap.Int("symbols", u.Symbols))
	}
	return nil
}
