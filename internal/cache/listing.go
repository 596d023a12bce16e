// Package cache keeps the rendered listing snapshots that mutations
// revalidate.
package cache

import "sync"

// Listing caches one value per page path until the path is revalidated
type Listing[T any] struct {
	mu          sync.Mutex
	entries     map[string]T
	revalidated map[string]int
}

// NewListing creates an empty cache
func NewListing[T any]() *Listing[T] {
	return &Listing[T]{
		entries:     make(map[string]T),
		revalidated: make(map[string]int),
	}
}

// Get returns the cached value for path
func (c *Listing[T]) Get(path string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[path]
	return v, ok
}

// Lookup returns the cached value for path along with the path's current
// generation. The generation changes on every Revalidate.
func (c *Listing[T]) Lookup(path string) (T, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[path]
	return v, c.revalidated[path], ok
}

// SetIfUnchanged stores v for path only if the path has not been revalidated
// since gen was read. It reports whether v was stored.
func (c *Listing[T]) SetIfUnchanged(path string, v T, gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revalidated[path] != gen {
		return false
	}
	c.entries[path] = v
	return true
}

// Set stores v for path
func (c *Listing[T]) Set(path string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = v
}

// Revalidate drops the cached value for path so the next read loads fresh state
func (c *Listing[T]) Revalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	c.revalidated[path]++
}

// Revalidations returns how many times path has been revalidated
func (c *Listing[T]) Revalidations(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revalidated[path]
}
