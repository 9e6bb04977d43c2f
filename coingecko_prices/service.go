package coingecko_prices

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/interfaces"
)

// SourceName is reported in PriceResult.Sources
const SourceName = "coingecko"

// Provider answers price lookups from CoinGecko
type Provider struct {
	client  APIClient
	coinIDs map[string]string
	logger  *zap.Logger
}

// NewProvider creates a provider. coinIDs maps lower case currency symbols
// to CoinGecko coin ids; other symbols are looked up by symbol.
func NewProvider(client APIClient, coinIDs map[string]string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := make(map[string]string, len(coinIDs))
	for symbol, id := range coinIDs {
		ids[strings.ToLower(symbol)] = id
	}
	return &Provider{
		client:  client,
		coinIDs: ids,
		logger:  logger.Named(SourceName),
	}
}

// NewProviderFromConfig wires a CoinGeckoClient from configuration
func NewProviderFromConfig(cfg *config.Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiters := newLimiterManager(cfg.Coingecko)
	client := NewCoinGeckoClient(cfg.Coingecko, cfg.APITokens, limiters, logger.Named(SourceName))
	return NewProvider(client, cfg.Coingecko.CoinIDs, logger)
}

// Name returns the source name
func (p *Provider) Name() string {
	return SourceName
}

// Healthy reports whether CoinGecko answered at least once
func (p *Provider) Healthy() bool {
	return p.client.Healthy()
}

// GetPrice implements interfaces.PriceLookupService
func (p *Provider) GetPrice(ctx context.Context, currency, fiat string, _ interfaces.Options) (interfaces.PriceResult, error) {
	coin := p.coinRef(currency)
	fiat = strings.ToLower(fiat)

	price, err := p.client.FetchPrice(ctx, coin, fiat)
	if err != nil {
		return interfaces.PriceResult{}, &interfaces.PriceLookupError{
			Currency: currency,
			Fiat:     fiat,
			Source:   SourceName,
			Err:      err,
		}
	}

	source := interfaces.Source{Name: SourceName}
	if coin.ID != "" {
		source.URL = "https://www.coingecko.com/en/coins/" + coin.ID
	}

	return interfaces.PriceResult{
		Sources: []interfaces.Source{source},
		Price:   price,
	}, nil
}

func (p *Provider) coinRef(currency string) CoinRef {
	symbol := strings.ToLower(strings.TrimSpace(currency))
	return CoinRef{Symbol: symbol, ID: p.coinIDs[symbol]}
}
