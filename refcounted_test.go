//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
	"github.com/cefgo/cefgo/internal/handles"
)

// closePayload counts teardown calls.
type closePayload struct {
	closed atomic.Int32
}

func (p *closePayload) Close() error {
	p.closed.Add(1)
	return nil
}

func TestWrapInitialReference(t *testing.T) {
	p := &closePayload{}
	ptr := Wrap(capi.Task{}, p)

	if ptr.IsNil() {
		t.Fatal("Wrap returned nil pointer")
	}
	if !ptr.HasOneRef() {
		t.Error("fresh composite should have exactly one reference")
	}
	if !ptr.HasAtLeastOneRef() {
		t.Error("fresh composite should have at least one reference")
	}
	if p.closed.Load() != 0 {
		t.Error("payload torn down while still referenced")
	}

	if alive := ptr.Release(); alive {
		t.Error("Release of the last reference should report no owners left")
	}
	if got := p.closed.Load(); got != 1 {
		t.Errorf("payload Close called %d times, want 1", got)
	}
}

func TestWrapInstallsHeader(t *testing.T) {
	execute := purego.NewCallback(func(self uintptr) {})

	ptr := Wrap(capi.Task{Execute: execute}, nil)
	raw := ptr.Raw()

	if raw.Size != unsafe.Sizeof(capi.Task{}) {
		t.Errorf("header size = %d, want %d", raw.Size, unsafe.Sizeof(capi.Task{}))
	}
	if raw.AddRef == 0 || raw.Release == 0 || raw.HasOneRef == 0 || raw.HasAtLeastOneRef == 0 {
		t.Error("header function pointers not installed")
	}

	// Slots outside the header survive the wrap.
	rec := (*capi.Task)(unsafe.Pointer(raw))
	if rec.Execute != execute {
		t.Error("record template slot was not preserved")
	}

	ptr.Release()
}

func TestPayloadIdentityAcrossRawRoundTrip(t *testing.T) {
	p := &closePayload{}
	ptr := Wrap(capi.StringVisitor{}, p)

	if got := Payload(ptr.Raw()); got != p {
		t.Fatalf("Payload = %v, want the wrapped payload", got)
	}

	// Decompose to raw and reconstruct; the payload must be the same object.
	raw := ptr.IntoRaw()
	back, ok := FromPtr(unsafe.Pointer(raw))
	if !ok {
		t.Fatal("FromPtr failed on a live raw pointer")
	}
	if back.Raw() != raw {
		t.Error("reconstructed pointer does not alias the original")
	}
	if got := Payload(back.Raw()); got != p {
		t.Error("payload identity changed across raw round trip")
	}

	back.Release()
	if p.closed.Load() != 1 {
		t.Error("round trip must not leak or double-free the composite")
	}
}

func TestCloneHoldsIndependentReference(t *testing.T) {
	p := &closePayload{}
	ptr := Wrap(capi.Task{}, p)

	clone := ptr.Clone()
	if ptr.HasOneRef() {
		t.Error("two handles outstanding, HasOneRef should be false")
	}

	if alive := clone.Release(); !alive {
		t.Error("releasing one of two references should report an owner left")
	}
	if p.closed.Load() != 0 {
		t.Error("payload torn down while a reference remained")
	}
	if !ptr.HasOneRef() {
		t.Error("one handle outstanding, HasOneRef should be true")
	}

	if alive := ptr.Release(); alive {
		t.Error("releasing the last reference should report no owners left")
	}
	if p.closed.Load() != 1 {
		t.Error("payload should be torn down exactly once")
	}
}

// Drive the whole lifecycle from the foreign side's point of view: every
// call goes through the installed function pointers, as CEF would make them.
func TestForeignCallSequence(t *testing.T) {
	p := &closePayload{}
	ptr := Wrap(capi.Task{}, p)
	raw := ptr.IntoRaw()
	self := uintptr(unsafe.Pointer(raw))

	purego.SyscallN(raw.AddRef, self)
	purego.SyscallN(raw.AddRef, self) // count is now 3

	for i, want := range []uintptr{1, 1, 0} {
		r1, _, _ := purego.SyscallN(raw.Release, self)
		if r1 != want {
			t.Fatalf("release #%d returned %d, want %d", i+1, r1, want)
		}
		if want != 0 && p.closed.Load() != 0 {
			t.Fatalf("payload torn down early, after release #%d", i+1)
		}
	}
	if got := p.closed.Load(); got != 1 {
		t.Errorf("payload Close called %d times, want 1", got)
	}
}

func TestForeignIntrospection(t *testing.T) {
	ptr := Wrap(capi.Task{}, nil)
	raw := ptr.Raw()
	self := uintptr(unsafe.Pointer(raw))

	if r1, _, _ := purego.SyscallN(raw.HasOneRef, self); r1 != 1 {
		t.Error("has_one_ref should report 1 for a fresh composite")
	}
	if r1, _, _ := purego.SyscallN(raw.HasAtLeastOneRef, self); r1 != 1 {
		t.Error("has_at_least_one_ref should report 1 for a fresh composite")
	}

	purego.SyscallN(raw.AddRef, self)
	if r1, _, _ := purego.SyscallN(raw.HasOneRef, self); r1 != 0 {
		t.Error("has_one_ref should report 0 with two references")
	}
	purego.SyscallN(raw.Release, self)

	ptr.Release()
}

func TestNilPointers(t *testing.T) {
	if _, ok := FromPtr(nil); ok {
		t.Error("FromPtr(nil) should fail")
	}
	if _, ok := FromPtrAddRef(nil); ok {
		t.Error("FromPtrAddRef(nil) should fail")
	}

	var zero RefPtr
	if !zero.IsNil() {
		t.Error("zero RefPtr should be nil")
	}
	if zero.Release() {
		t.Error("Release on nil RefPtr should return false")
	}
	if zero.HasOneRef() || zero.HasAtLeastOneRef() {
		t.Error("introspection on nil RefPtr should return false")
	}
	if !zero.Clone().IsNil() {
		t.Error("Clone of nil RefPtr should be nil")
	}
	if zero.IntoRaw() != nil {
		t.Error("IntoRaw on nil RefPtr should return nil")
	}
}

func TestReleaseIsIdempotentOnHandle(t *testing.T) {
	ptr := Wrap(capi.Task{}, &closePayload{})
	ptr.Release()
	// The handle cleared itself; a second Release must not touch the
	// (already freed) composite.
	if ptr.Release() {
		t.Error("second Release on the same handle should return false")
	}
	if !ptr.IsNil() {
		t.Error("Release should clear the handle")
	}
}

func TestNoRegistryLeak(t *testing.T) {
	before := handles.Count()
	allocBefore, freeBefore := CompositeStats()

	const n = 100
	for i := 0; i < n; i++ {
		ptr := Wrap(capi.CompletionCallback{}, &closePayload{})
		clone := ptr.Clone()
		clone.Release()
		ptr.Release()
	}

	if got := handles.Count(); got != before {
		t.Errorf("registry holds %d entries, want %d", got, before)
	}
	allocAfter, freeAfter := CompositeStats()
	if allocAfter-allocBefore != n || freeAfter-freeBefore != n {
		t.Errorf("composite stats: %d allocated, %d freed, want %d each",
			allocAfter-allocBefore, freeAfter-freeBefore, n)
	}
}

func TestConcurrentRefCountStress(t *testing.T) {
	const (
		workers = 8
		rounds  = 2000
	)

	p := &closePayload{}
	ptr := Wrap(capi.Task{}, p)
	raw := ptr.Raw()
	self := uintptr(unsafe.Pointer(raw))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if w%2 == 0 {
					// Host-side pairs through the handle.
					clone := ptr.Clone()
					clone.Release()
				} else {
					// Foreign-side pairs through the function table.
					purego.SyscallN(raw.AddRef, self)
					purego.SyscallN(raw.Release, self)
				}
			}
		}(w)
	}
	wg.Wait()

	if p.closed.Load() != 0 {
		t.Fatal("stress run freed the composite while a reference remained")
	}
	if !ptr.HasOneRef() {
		t.Error("paired increments/decrements must leave the count unchanged")
	}

	ptr.Release()
	if got := p.closed.Load(); got != 1 {
		t.Errorf("payload Close called %d times, want 1", got)
	}
}

type panicPayload struct{}

func (panicPayload) Close() error {
	panic("teardown failure")
}

// A fault inside a callback entry point must not unwind into the caller,
// which stands in for a foreign frame here.
func TestPanicContainedAtReleaseEntry(t *testing.T) {
	ptr := Wrap(capi.Task{}, panicPayload{})
	raw := ptr.IntoRaw()

	_, freeBefore := CompositeStats()
	r1, _, _ := purego.SyscallN(raw.Release, uintptr(unsafe.Pointer(raw)))
	if r1 != 1 {
		t.Errorf("release with contained panic should report the safe default, got %d", r1)
	}
	if _, freeAfter := CompositeStats(); freeAfter != freeBefore+1 {
		t.Error("composite should still be accounted as freed")
	}
}
