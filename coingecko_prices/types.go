package coingecko_prices

// CoinRef identifies a coin in a simple price request. ID is empty for
// symbols without a configured CoinGecko id.
type CoinRef struct {
	Symbol string
	ID     string
}

// Key returns the key CoinGecko uses for this coin in the response
func (c CoinRef) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Symbol
}

// SimplePriceResponse is the simple/price body: coin -> fiat -> price
type SimplePriceResponse map[string]map[string]float64
