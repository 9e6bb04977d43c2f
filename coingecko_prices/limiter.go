package coingecko_prices

import (
	"net/url"

	cg "github.com/status-im/wallet-aggregator/coingecko_common"
	"github.com/status-im/wallet-aggregator/config"
)

// newLimiterManager limits keyless requests to the configured hosts as well
// as to the CoinGecko ones
func newLimiterManager(cfg config.CoingeckoConfig) *cg.RateLimiterManager {
	hosts := []string{"api.coingecko.com", "pro-api.coingecko.com"}
	for _, raw := range []string{cfg.PublicURL, cfg.ProURL} {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			hosts = append(hosts, u.Hostname())
		}
	}
	return cg.NewRateLimiterManager(cfg.APIKeys, hosts...)
}
