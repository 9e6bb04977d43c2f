package prices

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/interfaces"
)

// Provider is a named price source
type Provider interface {
	interfaces.PriceLookupService
	Name() string
}

// Chain asks providers in order and returns the first answer. The answering
// provider is reported as the only source.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain creates a chain over providers, tried in the given order
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		providers: providers,
		logger:    logger.Named("price-chain"),
	}
}

// GetPrice implements interfaces.PriceLookupService
func (c *Chain) GetPrice(ctx context.Context, currency, fiat string, opts interfaces.Options) (interfaces.PriceResult, error) {
	if len(c.providers) == 0 {
		return interfaces.PriceResult{}, &interfaces.PriceLookupError{
			Currency: currency,
			Fiat:     fiat,
			Err:      interfaces.ErrUnavailable,
		}
	}

	// An explicit "source" option pins the chain to one provider
	providers := c.providers
	if pinned := opts.String("source"); pinned != "" {
		providers = nil
		for _, p := range c.providers {
			if strings.EqualFold(p.Name(), pinned) {
				providers = append(providers, p)
			}
		}
		if len(providers) == 0 {
			return interfaces.PriceResult{}, &interfaces.PriceLookupError{
				Currency: currency,
				Fiat:     fiat,
				Source:   pinned,
				Err:      interfaces.ErrUnavailable,
			}
		}
	}

	var errs []error
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := p.GetPrice(ctx, currency, fiat, opts)
		if err != nil {
			c.logger.Debug("Provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.String("currency", currency),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}

		source := interfaces.Source{Name: p.Name()}
		if len(result.Sources) > 0 {
			source = result.Sources[0]
		}
		result.Sources = []interfaces.Source{source}
		return result, nil
	}

	return interfaces.PriceResult{}, &interfaces.PriceLookupError{
		Currency: currency,
		Fiat:     fiat,
		Err:      errors.Join(errs...),
	}
}
