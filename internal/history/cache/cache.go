package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

type entry[V any] struct {
	value     V
	expiresOn time.Time
}

// ExpiringCache is a recency-bounded cache whose entries also expire at a fixed date.
// An entry is served while the lookup date is on or before its expiry.
type ExpiringCache[K comparable, V any] struct {
	entries *lru.Cache[K, entry[V]]
}

// NewExpiringCache creates a cache holding at most capacity entries.
func NewExpiringCache[K comparable, V any](capacity int) (*ExpiringCache[K, V], error) {
	entries, err := lru.New[K, entry[V]](capacity)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid cache capacity %d", capacity)
	}

	return &ExpiringCache[K, V]{entries: entries}, nil
}

// Get returns the value of key as of asOf. Expired entries are removed and reported missing.
func (c *ExpiringCache[K, V]) Get(key K, asOf time.Time) (V, bool) {
	var zero V

	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}

	if asOf.After(e.expiresOn) {
		c.entries.Remove(key)

		return zero, false
	}

	return e.value, true
}

// Set replaces the entry of key.
func (c *ExpiringCache[K, V]) Set(key K, value V, expiresOn time.Time) {
	c.entries.Add(key, entry[V]{value: value, expiresOn: expiresOn})
}

// Remove drops the entry of key.
func (c *ExpiringCache[K, V]) Remove(key K) {
	c.entries.Remove(key)
}

// Len returns the number of resident entries, expired ones included.
func (c *ExpiringCache[K, V]) Len() int {
	return c.entries.Len()
}

// Purge drops every entry.
func (c *ExpiringCache[K, V]) Purge() {
	c.entries.Purge()
}
