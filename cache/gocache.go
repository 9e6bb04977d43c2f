package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// GoCache is the in-process L1 level
type GoCache struct {
	cache *cache.Cache
}

// NewGoCache creates a new GoCache instance
func NewGoCache(defaultExpiration, cleanupInterval time.Duration) *GoCache {
	return &GoCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the values found for keys and the keys that were missing.
// Values stored with a type other than []byte count as missing.
func (gc *GoCache) Get(keys []string) (map[string][]byte, []string) {
	found := make(map[string][]byte, len(keys))
	var missing []string

	for _, key := range keys {
		value, ok := gc.cache.Get(key)
		if data, isBytes := value.([]byte); ok && isBytes {
			found[key] = data
			continue
		}
		missing = append(missing, key)
	}

	return found, missing
}

// Set stores values; a zero ttl uses the default expiration
func (gc *GoCache) Set(data map[string][]byte, ttl time.Duration) {
	for key, value := range data {
		gc.cache.Set(key, value, ttl)
	}
}

// Delete removes items from cache by keys
func (gc *GoCache) Delete(keys []string) {
	for _, key := range keys {
		gc.cache.Delete(key)
	}
}

// Clear removes all items from cache
func (gc *GoCache) Clear() {
	gc.cache.Flush()
}

// ItemCount returns the number of items in cache, expired ones included
func (gc *GoCache) ItemCount() int {
	return gc.cache.ItemCount()
}
