package client

import "sync"

// Collection is a locally cached resource list keyed by a comparable id
// (a uint for most resources, a composite for conversations). Fetches
// replace it wholesale, creates prepend, updates replace by id. The zero
// state is an empty list with no error.
type Collection[T any, K comparable] struct {
	mu    sync.RWMutex
	items []T
	err   error
	id    func(T) K
}

func NewCollection[T any, K comparable](id func(T) K) *Collection[T, K] {
	return &Collection[T, K]{id: id}
}

// Items returns a copy of the cached list.
func (c *Collection[T, K]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the cached list length.
func (c *Collection[T, K]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Err returns the error of the last failed operation, cleared by the next
// successful one.
func (c *Collection[T, K]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Collection[T, K]) replaceAll(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.err = nil
}

func (c *Collection[T, K]) prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	c.err = nil
}

// replace swaps the entity with the same id. Unknown ids are prepended so
// a view refreshed out of order still converges.
func (c *Collection[T, K]) replace(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
	for i := range c.items {
		if c.id(c.items[i]) == c.id(item) {
			c.items[i] = item
			return
		}
	}
	c.items = append([]T{item}, c.items...)
}

// mutate edits the entity with the given id in place, if present.
func (c *Collection[T, K]) mutate(id K, fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			fn(&c.items[i])
			return
		}
	}
}

func (c *Collection[T, K]) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}
