package config

import "time"

// AggregatorConfig holds the defaults applied to every aggregation
type AggregatorConfig struct {
	// PoolSize bounds concurrent lookups; 0 means half the planned calls
	PoolSize   int    `yaml:"pool_size"`
	Concurrent bool   `yaml:"concurrent"`
	Verbose    bool   `yaml:"verbose"`
	Fiat       string `yaml:"fiat"`
	// Timeout bounds one aggregation; 0 means no deadline
	Timeout time.Duration `yaml:"timeout"`
}

// PricesConfig selects and orders the price providers
type PricesConfig struct {
	// Providers are tried in order until one answers
	Providers []string      `yaml:"providers"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// CoingeckoConfig configures the CoinGecko price provider
type CoingeckoConfig struct {
	PublicURL         string            `yaml:"public_url"`
	ProURL            string            `yaml:"pro_url"`
	TokensFile        string            `yaml:"tokens_file"`
	ConnectionTimeout time.Duration     `yaml:"connection_timeout"`
	RequestTimeout    time.Duration     `yaml:"request_timeout"`
	APIKeys           APIKeyConfig      `yaml:"api_keys"`
	CoinIDs           map[string]string `yaml:"coin_ids"`
}

// BinanceConfig configures the streaming ticker feed
type BinanceConfig struct {
	WSURL          string        `yaml:"ws_url"`
	QuoteAsset     string        `yaml:"quote_asset"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// BalancesConfig configures the balance backends
type BalancesConfig struct {
	BlockCypher BlockCypherConfig `yaml:"blockcypher"`
	Solana      SolanaConfig      `yaml:"solana"`
	Ethereum    EthereumConfig    `yaml:"ethereum"`
}

// BlockCypherConfig configures the UTXO chain backend
type BlockCypherConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Token              string        `yaml:"token"`
	Coins              []string      `yaml:"coins"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
}

// SolanaConfig configures the Solana RPC backend. An empty RPCURL disables it.
type SolanaConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// EthereumConfig configures the Ethereum RPC backend. An empty RPCURL disables it.
type EthereumConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}
