// Package lazy provides the memoization contract shared by all analyzers.
//
// A derived attribute is computed at most once per Cache, identified by a
// string key. Subsequent reads return the identical cached value without
// re-invoking the computation. Reset clears every cached value at once.
//
// Population is not synchronized: the contract assumes single-threaded or
// externally-synchronized access while attributes are being computed.
// Reading already-populated values from multiple goroutines is safe as long
// as callers treat the returned values as immutable.
package lazy

// Cache memoizes derived values keyed by attribute name.
// The zero value is not usable; call New.
type Cache struct {
	values map[string]any
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{values: make(map[string]any)}
}

// Reset discards every cached value. The next read of any attribute
// re-invokes its computation.
func (c *Cache) Reset() {
	clear(c.values)
}

// Computed reports whether the attribute is currently populated.
func (c *Cache) Computed(key string) bool {
	_, ok := c.values[key]

	return ok
}

// Get returns the cached value for key, computing and storing it on first
// access. A computation error is returned as-is and leaves the key
// unpopulated, so a later read is a fresh attempt.
func Get[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if v, ok := c.values[key]; ok {
		return v.(T), nil
	}

	v, err := compute()
	if err != nil {
		var zero T

		return zero, err
	}

	c.values[key] = v

	return v, nil
}
