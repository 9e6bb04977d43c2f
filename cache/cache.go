package cache

import (
	"context"
	"time"
)

// LoaderFunc loads values for keys that were not found in any cache level.
// It returns a key->data map; keys it does not return stay uncached.
type LoaderFunc func(missingKeys []string) (map[string][]byte, error)

// Cache is a two level byte cache: an in-process L1 backed by an optional
// shared L2.
type Cache interface {
	// GetOrLoad returns cached values for keys and calls loader for the rest.
	// With loadOnlyMissingKeys=false the loader receives every key whenever
	// anything is missing. A zero ttl uses the default expiration.
	GetOrLoad(ctx context.Context, keys []string, loader LoaderFunc, loadOnlyMissingKeys bool, ttl time.Duration) (map[string][]byte, error)

	// Get returns found values and the keys that were missing.
	Get(ctx context.Context, keys []string) (map[string][]byte, []string, error)

	// Set stores values in every enabled level.
	Set(ctx context.Context, data map[string][]byte, ttl time.Duration) error

	// Delete evicts keys from every level.
	Delete(ctx context.Context, keys []string) error
}
