// Package handles provides a thread-safe handle system for storing Go objects
// that need to be referenced from CEF callbacks.
//
// When CEF holds a pointer to one of our refcounted structs, the Go payload
// wrapped inside it cannot be reached through a Go pointer stored in foreign
// memory. Instead, the payload is registered here and the composite carries a
// uintptr handle; the refcount callbacks recover the payload with Lookup.
//
// A registry entry also keeps the payload (and the composite block that
// references it) reachable for the garbage collector while the only owners
// are foreign-held raw pointers.
package handles

import (
	"sync"
)

var (
	mu      sync.RWMutex
	handles = make(map[uintptr]any)
	nextID  uintptr = 1
)

// Register stores a Go object and returns a handle ID.
// The handle can be safely stored in foreign memory (as uintptr or void*).
// The object will remain accessible until Unregister or Take is called.
//
// Thread-safe.
func Register(v any) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	handles[id] = v
	return id
}

// Lookup retrieves a Go object by its handle ID.
// Returns nil if the handle is not registered.
//
// Thread-safe.
func Lookup(id uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return handles[id]
}

// Take removes a handle and returns the object it referenced, or nil if the
// handle was not registered. At most one concurrent caller observes the
// object; used by one-shot callback records that must fire exactly once.
//
// Thread-safe.
func Take(id uintptr) any {
	mu.Lock()
	defer mu.Unlock()
	v, ok := handles[id]
	if !ok {
		return nil
	}
	delete(handles, id)
	return v
}

// Unregister removes a handle and allows the Go object to be garbage collected.
// Called when the composite's reference count reaches zero.
//
// Thread-safe.
func Unregister(id uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(handles, id)
}

// Count returns the number of currently registered handles.
// Useful for debugging and leak tests.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handles)
}
