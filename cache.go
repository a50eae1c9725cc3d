//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"sync"
)

// PtrCache memoizes the composite produced for a payload identity, so that
// handing the same conceptual object across the boundary repeatedly (for
// example re-registering a handler on every settings update) does not
// allocate a new composite each time.
//
// The cache holds exactly one reference to the cached object and drops it
// when the identity changes or the cache is closed.
type PtrCache struct {
	mu       sync.Mutex
	ptr      RefPtr
	identity any
}

// GetOrRewrap returns an owned pointer for the payload identified by
// identity. If identity matches the cached entry, the cached pointer is
// cloned; otherwise wrap is invoked for a fresh composite, which replaces
// the cache entry (releasing the cache's reference on the previous one).
//
// identity must be comparable and stable for the payload, e.g. the pointer
// to its shared backing object.
func (c *PtrCache) GetOrRewrap(identity any, wrap func() RefPtr) RefPtr {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ptr.IsNil() && c.identity == identity {
		return c.ptr.Clone()
	}

	old := c.ptr
	c.ptr = wrap()
	c.identity = identity
	old.Release()

	return c.ptr.Clone()
}

// Close releases the cached reference, if any. The composite stays alive as
// long as clones handed out earlier still hold references.
func (c *PtrCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ptr.Release()
	c.identity = nil
	return nil
}
