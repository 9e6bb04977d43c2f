package interfaces

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrUnsupportedFiat     = errors.New("unsupported fiat currency")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrRateLimited         = errors.New("rate limited")
	ErrUnavailable         = errors.New("upstream unavailable")
)

// PriceLookupError is returned by price lookup services
type PriceLookupError struct {
	Currency string
	Fiat     string
	Source   string
	Err      error
}

func (e *PriceLookupError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: price %s/%s: %v", e.Source, e.Currency, e.Fiat, e.Err)
	}
	return fmt.Sprintf("price %s/%s: %v", e.Currency, e.Fiat, e.Err)
}

func (e *PriceLookupError) Unwrap() error {
	return e.Err
}

// BalanceLookupError is returned by balance lookup services
type BalanceLookupError struct {
	Currency string
	Address  string
	Source   string
	Err      error
}

func (e *BalanceLookupError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: balance %s %s: %v", e.Source, e.Currency, e.Address, e.Err)
	}
	return fmt.Sprintf("balance %s %s: %v", e.Currency, e.Address, e.Err)
}

func (e *BalanceLookupError) Unwrap() error {
	return e.Err
}
