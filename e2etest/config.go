package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/status-im/wallet-aggregator/config"
)

// createTestConfig writes a configuration pointing every upstream at the
// mock server and returns its path
func createTestConfig(mockURL, wsURL string) (string, error) {
	tempDir, err := os.MkdirTemp("", "wallet-aggregator-test")
	if err != nil {
		return "", err
	}

	tokensFilePath := filepath.Join(tempDir, "tokens.json")
	tokensContent := `{"api_tokens": [], "demo_api_tokens": ["test-demo-key"]}`
	if err := os.WriteFile(tokensFilePath, []byte(tokensContent), 0o600); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	configContent := fmt.Sprintf(`
aggregator:
  fiat: usd
  concurrent: true

prices:
  providers: [binance, coingecko]   # streaming first, REST as fallback
  cache_ttl: 1m

coingecko:
  public_url: %[1]q
  pro_url: %[1]q
  tokens_file: %[3]q
  api_keys:
    demo:
      rate_limit_per_minute: 6000

binance:
  ws_url: %[2]q
  reconnect_delay: 100ms

balances:
  blockcypher:
    base_url: %[1]q
    coins: [btc, ltc]
    rate_limit_per_minute: 6000
  solana:
    rpc_url: %[1]s/solana
  ethereum:
    rpc_url: %[1]s/ethereum

server:
  port: "0"
  shutdown_timeout: 1s

log:
  level: warn
`, mockURL, wsURL, tokensFilePath)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(mockURL, wsURL string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL, wsURL)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
