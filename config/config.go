package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/status-im/wallet-aggregator/cache"
)

// Known price provider names
const (
	ProviderCoingecko = "coingecko"
	ProviderBinance   = "binance"
)

type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Prices     PricesConfig     `yaml:"prices"`
	Coingecko  CoingeckoConfig  `yaml:"coingecko"`
	Binance    BinanceConfig    `yaml:"binance"`
	Balances   BalancesConfig   `yaml:"balances"`
	Cache      cache.Config     `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`

	APITokens *APITokens `yaml:"-"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Aggregator: AggregatorConfig{
			Fiat: "usd",
		},
		Prices: PricesConfig{
			Providers: []string{ProviderCoingecko},
			CacheTTL:  30 * time.Second,
		},
		Coingecko: CoingeckoConfig{
			PublicURL:         "https://api.coingecko.com",
			ProURL:            "https://pro-api.coingecko.com",
			ConnectionTimeout: 10 * time.Second,
			RequestTimeout:    30 * time.Second,
			CoinIDs: map[string]string{
				"btc":  "bitcoin",
				"eth":  "ethereum",
				"sol":  "solana",
				"ltc":  "litecoin",
				"doge": "dogecoin",
				"dash": "dash",
			},
		},
		Binance: BinanceConfig{
			WSURL:          "wss://stream.binance.com:9443/ws/!ticker@arr",
			QuoteAsset:     "USDT",
			ReconnectDelay: 5 * time.Second,
		},
		Balances: BalancesConfig{
			BlockCypher: BlockCypherConfig{
				BaseURL:            "https://api.blockcypher.com",
				Coins:              []string{"btc", "ltc", "doge", "dash"},
				RequestTimeout:     15 * time.Second,
				RateLimitPerMinute: 180,
			},
		},
		Cache: cache.DefaultCacheConfig(),
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		APITokens: &APITokens{Tokens: []string{}},
	}
}

// LoadConfig reads the YAML file at path over the defaults and loads the
// CoinGecko tokens file it points to. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiTokens, err := LoadAPITokens(cfg.Coingecko.TokensFile)
	if err != nil {
		return nil, fmt.Errorf("load api tokens from %s: %w", cfg.Coingecko.TokensFile, err)
	}
	cfg.APITokens = apiTokens

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a service
func (c *Config) Validate() error {
	if c.Aggregator.PoolSize < 0 {
		return fmt.Errorf("aggregator.pool_size must not be negative, got %d", c.Aggregator.PoolSize)
	}
	if c.Aggregator.Fiat == "" {
		return errors.New("aggregator.fiat must be set")
	}
	if c.Aggregator.Timeout < 0 {
		return fmt.Errorf("aggregator.timeout must not be negative, got %s", c.Aggregator.Timeout)
	}
	if len(c.Prices.Providers) == 0 {
		return errors.New("prices.providers must list at least one provider")
	}
	for _, p := range c.Prices.Providers {
		switch p {
		case ProviderCoingecko, ProviderBinance:
		default:
			return fmt.Errorf("prices.providers: unknown provider %q", p)
		}
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.URL == "" {
		return errors.New("cache.redis.url must be set when redis is enabled")
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
