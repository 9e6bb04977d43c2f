package coingecko_prices

import (
	"strings"

	cg "github.com/status-im/wallet-aggregator/coingecko_common"
)

const (
	// Complete path for simple price API endpoint
	PRICES_API_PATH = "/api/v3/simple/price"
)

// PricesRequestBuilder builds CoinGecko simple price API requests
type PricesRequestBuilder struct {
	*cg.CoingeckoRequestBuilder
}

// NewPricesRequestBuilder creates a new request builder for simple price endpoint
func NewPricesRequestBuilder(baseURL string) *PricesRequestBuilder {
	return &PricesRequestBuilder{
		CoingeckoRequestBuilder: cg.NewCoingeckoRequestBuilder(baseURL, PRICES_API_PATH),
	}
}

// WithCoin selects the coin by CoinGecko id when known, by symbol otherwise
func (rb *PricesRequestBuilder) WithCoin(ref CoinRef) *PricesRequestBuilder {
	if ref.ID != "" {
		rb.With("ids", ref.ID)
	} else {
		rb.With("symbols", ref.Symbol)
	}
	return rb
}

// WithCurrencies adds vs_currencies parameter
func (rb *PricesRequestBuilder) WithCurrencies(currencies ...string) *PricesRequestBuilder {
	rb.With("vs_currencies", strings.Join(currencies, ","))
	return rb
}

// WithPrecision adds precision parameter
func (rb *PricesRequestBuilder) WithPrecision(precision string) *PricesRequestBuilder {
	rb.With("precision", precision)
	return rb
}
