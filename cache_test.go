//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"testing"

	"github.com/cefgo/cefgo/capi"
)

func TestGetOrRewrapSameIdentity(t *testing.T) {
	p := &closePayload{}
	wraps := 0
	wrap := func() RefPtr {
		wraps++
		return Wrap(capi.StringVisitor{}, p)
	}

	var cache PtrCache
	defer cache.Close()

	first := cache.GetOrRewrap(p, wrap)
	second := cache.GetOrRewrap(p, wrap)

	if wraps != 1 {
		t.Errorf("wrap ran %d times, want 1", wraps)
	}
	if first.Raw() != second.Raw() {
		t.Error("same identity should yield pointers to the same composite")
	}

	first.Release()
	second.Release()
	if p.closed.Load() != 0 {
		t.Error("cache should still hold a reference")
	}

	cache.Close()
	if got := p.closed.Load(); got != 1 {
		t.Errorf("payload Close called %d times after cache close, want 1", got)
	}
}

func TestGetOrRewrapChangedIdentity(t *testing.T) {
	p1 := &closePayload{}
	p2 := &closePayload{}

	var cache PtrCache
	defer cache.Close()

	first := cache.GetOrRewrap(p1, func() RefPtr { return Wrap(capi.StringVisitor{}, p1) })
	second := cache.GetOrRewrap(p2, func() RefPtr { return Wrap(capi.StringVisitor{}, p2) })

	if first.Raw() == second.Raw() {
		t.Error("changed identity should allocate a new composite")
	}

	// Replacing the entry dropped the cache's reference to the first
	// composite, but the caller's clone still owns it.
	if p1.closed.Load() != 0 {
		t.Error("outstanding clone should keep the old composite alive")
	}
	first.Release()
	if got := p1.closed.Load(); got != 1 {
		t.Errorf("old payload Close called %d times, want 1", got)
	}

	second.Release()
	cache.Close()
	if got := p2.closed.Load(); got != 1 {
		t.Errorf("new payload Close called %d times, want 1", got)
	}
}

func TestPtrCacheCloseEmpty(t *testing.T) {
	var cache PtrCache
	if err := cache.Close(); err != nil {
		t.Errorf("Close on empty cache: %v", err)
	}
}
