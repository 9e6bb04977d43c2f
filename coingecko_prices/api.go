package coingecko_prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	cg "github.com/status-im/wallet-aggregator/coingecko_common"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/metrics"
)

// APIClient defines interface for API operations
type APIClient interface {
	// FetchPrice returns the price of coin in fiat
	FetchPrice(ctx context.Context, coin CoinRef, fiat string) (float64, error)
	// Healthy reports whether at least one fetch succeeded
	Healthy() bool
}

// CoinGeckoClient implements APIClient for CoinGecko
type CoinGeckoClient struct {
	config          config.CoingeckoConfig
	keyManager      *cg.APIKeyManager
	httpClient      *cg.HTTPClient
	metricsWriter   *metrics.MetricsWriter
	logger          *zap.Logger
	successfulFetch atomic.Bool
}

// NewCoinGeckoClient creates a new CoinGecko API client
func NewCoinGeckoClient(cfg config.CoingeckoConfig, tokens *config.APITokens, limiters cg.IRateLimiterManager, logger *zap.Logger) *CoinGeckoClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := cg.DefaultClientOptions()
	if cfg.ConnectionTimeout > 0 {
		opts.ConnectionTimeout = cfg.ConnectionTimeout
	}
	if cfg.RequestTimeout > 0 {
		opts.RequestTimeout = cfg.RequestTimeout
	}

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceCoingecko)

	return &CoinGeckoClient{
		config:        cfg,
		keyManager:    cg.NewAPIKeyManager(tokens, logger),
		httpClient:    cg.NewHTTPClient(opts, metricsWriter, limiters),
		metricsWriter: metricsWriter,
		logger:        logger,
	}
}

// Healthy checks if the API has had at least one successful fetch
func (c *CoinGeckoClient) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchPrice fetches one coin price with the preferred API key. A rate
// limited key is put in backoff so the next lookup uses another one.
func (c *CoinGeckoClient) FetchPrice(ctx context.Context, coin CoinRef, fiat string) (float64, error) {
	apiKey := c.keyManager.PreferredKey()
	baseURL := cg.BaseURLForKey(c.config.PublicURL, c.config.ProURL, apiKey.Type)

	req, err := NewPricesRequestBuilder(baseURL).
		WithCoin(coin).
		WithCurrencies(fiat).
		WithPrecision("full").
		WithApiKey(apiKey).
		Build(ctx)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	body, duration, err := c.httpClient.ExecuteRequest(req)
	c.metricsWriter.RecordRequestLatency("simple/price", duration)
	if err != nil {
		if errors.Is(err, interfaces.ErrRateLimited) {
			c.keyManager.MarkKeyAsFailed(apiKey.Key)
		}
		return 0, err
	}

	var prices SimplePriceResponse
	if err := json.Unmarshal(body, &prices); err != nil {
		return 0, fmt.Errorf("%w: decode simple/price: %v", interfaces.ErrUnavailable, err)
	}

	c.logger.Debug("Fetched price",
		zap.String("coin", coin.Key()),
		zap.String("fiat", fiat),
		zap.Stringer("key_type", apiKey.Type),
		zap.Duration("duration", duration))

	byFiat, ok := prices[coin.Key()]
	if !ok {
		return 0, interfaces.ErrUnsupportedCurrency
	}
	price, ok := byFiat[fiat]
	if !ok {
		return 0, interfaces.ErrUnsupportedFiat
	}

	c.successfulFetch.Store(true)
	return price, nil
}
