package aggregator

import (
	"errors"
	"fmt"
)

// ErrNoWallets is returned when Aggregate is called without wallets
var ErrNoWallets = errors.New("no wallets to aggregate")

// LookupFailure wraps the first price or balance lookup error of an aggregation
type LookupFailure struct {
	Kind     TaskKind
	Currency string
	Fiat     string
	Address  string
	Err      error
}

func (e *LookupFailure) Error() string {
	if e.Kind == KindPrice {
		return fmt.Sprintf("price lookup %s/%s failed: %v", e.Currency, e.Fiat, e.Err)
	}
	return fmt.Sprintf("balance lookup %s %s failed: %v", e.Currency, e.Address, e.Err)
}

func (e *LookupFailure) Unwrap() error {
	return e.Err
}

// InternalConsistencyError means a result required by the join is missing
// although every lookup reported success. It indicates a bug.
type InternalConsistencyError struct {
	Kind     TaskKind
	Currency string
	Address  string
	Reason   string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error: %s result for %s %s: %s", e.Kind, e.Currency, e.Address, e.Reason)
}
