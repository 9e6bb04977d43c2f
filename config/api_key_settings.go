package config

import (
	"encoding/json"
	"os"
)

// APIKeyConfig configures rate limiting per CoinGecko key type
type APIKeyConfig struct {
	// Requests per minute and burst per type. If zero, defaults are used.
	Pro   RateLimit `yaml:"pro"`
	Demo  RateLimit `yaml:"demo"`
	NoKey RateLimit `yaml:"nokey"`
}

// RateLimit represents a simple rpm + burst pair
type RateLimit struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}

// APITokens holds the CoinGecko keys read from the tokens file
type APITokens struct {
	Tokens     []string `json:"api_tokens"`
	DemoTokens []string `json:"demo_api_tokens,omitempty"`
}

// LoadAPITokens reads the JSON tokens file. A missing file yields no tokens.
func LoadAPITokens(filename string) (*APITokens, error) {
	if filename == "" {
		return &APITokens{Tokens: []string{}}, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return &APITokens{Tokens: []string{}}, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var tokens APITokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}
