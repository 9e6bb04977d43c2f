package interfaces

import "context"

//go:generate mockgen -destination=mocks/lookup.go . PriceLookupService,BalanceLookupService

// Source identifies an upstream service that supplied a price
type Source struct {
	// Name is the stable identifier of the source (e.g. "coingecko", "binance")
	Name string `json:"name"`

	// URL of the upstream endpoint, informational only
	URL string `json:"url,omitempty"`
}

// PriceResult is a fiat price for one currency together with the sources
// that produced it. The first source is the authoritative one.
type PriceResult struct {
	Sources []Source `json:"sources"`
	Price   float64  `json:"price"`
}

// Options carries the per-call flags. Named flags are interpreted by the
// aggregator; Extra is forwarded to the lookup services untouched.
type Options struct {
	// Concurrent selects the worker-pool strategy instead of sequential calls
	Concurrent bool `json:"concurrent"`

	// Verbose enables diagnostic logging of the planned call count
	Verbose bool `json:"verbose"`

	// Extra holds service-specific options
	Extra map[string]any `json:"extra,omitempty"`
}

// Bool returns the boolean value of an extra option, false if absent or not a bool
func (o Options) Bool(key string) bool {
	if o.Extra == nil {
		return false
	}
	v, ok := o.Extra[key].(bool)
	return ok && v
}

// String returns the string value of an extra option, "" if absent
func (o Options) String(key string) string {
	if o.Extra == nil {
		return ""
	}
	v, _ := o.Extra[key].(string)
	return v
}

// PriceLookupService resolves the fiat price of a crypto currency
type PriceLookupService interface {
	// GetPrice returns the price of one unit of currency in fiat.
	// Fails with *PriceLookupError.
	GetPrice(ctx context.Context, currency, fiat string, opts Options) (PriceResult, error)
}

// BalanceLookupService resolves the balance held by an address
type BalanceLookupService interface {
	// GetBalance returns the balance of address in units of currency.
	// Fails with *BalanceLookupError.
	GetBalance(ctx context.Context, currency, address string, opts Options) (float64, error)
}

// PriceLookupFunc adapts a function to PriceLookupService
type PriceLookupFunc func(ctx context.Context, currency, fiat string, opts Options) (PriceResult, error)

func (f PriceLookupFunc) GetPrice(ctx context.Context, currency, fiat string, opts Options) (PriceResult, error) {
	return f(ctx, currency, fiat, opts)
}

// BalanceLookupFunc adapts a function to BalanceLookupService
type BalanceLookupFunc func(ctx context.Context, currency, address string, opts Options) (float64, error)

func (f BalanceLookupFunc) GetBalance(ctx context.Context, currency, address string, opts Options) (float64, error) {
	return f(ctx, currency, address, opts)
}
