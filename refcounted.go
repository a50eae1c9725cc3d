//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"io"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/cefgo/cefgo/capi"
	"github.com/cefgo/cefgo/internal/handles"
)

// The refcount bridge.
//
// A Go payload crosses into CEF inside a composite allocation: one block
// holding the C-visible record at offset zero, followed by an 8-aligned
// trailer carrying the atomic reference count and the payload's registry
// handle. Because the record is first, the raw pointer CEF holds is
// numerically the pointer to the whole composite, and any of the four header
// entry points can rebuild a view of the composite from nothing but that
// pointer and the declared record size.
//
// The entry points never take ownership: they reconstruct the trailer,
// operate on the count, and let the view expire. Ownership changes happen
// only through the count itself. When release drops it to zero the registry
// entry is removed, which both tears down the payload and lets the block be
// collected; no other destruction path exists.

// composite is the registry entry pinning one allocation: the block the raw
// pointer points into and the payload it carries.
type composite struct {
	block   []byte
	payload any
}

// trailer sits after the record bytes inside every composite allocation.
// refs is only touched through sync/atomic.
type trailer struct {
	refs   int64
	handle uintptr
}

const trailerSize = unsafe.Sizeof(trailer{})

func align8(n uintptr) uintptr {
	return (n + 7) &^ 7
}

// trailerOf rebuilds the non-owning composite view from a raw record
// pointer: the declared size in the header locates the trailer inside the
// same allocation. The count is not touched.
func trailerOf(base *capi.BaseRefCounted) *trailer {
	return (*trailer)(unsafe.Add(unsafe.Pointer(base), align8(base.Size)))
}

// Allocation counters for diagnostics and leak tests.
var (
	compositeAllocs atomic.Uint64
	compositeFrees  atomic.Uint64
)

// CompositeStats reports how many composite allocations have been created
// and how many have been torn down since process start.
func CompositeStats() (allocated, freed uint64) {
	return compositeAllocs.Load(), compositeFrees.Load()
}

// The four entry points installed into every header. Minted once and shared
// by all composites; CEF may call them from any thread at any time, so the
// bodies are wait-free (one atomic op) and must never let a panic unwind
// into foreign frames.
var (
	refCallbacksOnce sync.Once

	addRefPtr           uintptr
	releasePtr          uintptr
	hasOneRefPtr        uintptr
	hasAtLeastOneRefPtr uintptr
)

func initRefCallbacks() {
	refCallbacksOnce.Do(func() {
		addRefPtr = purego.NewCallback(func(self uintptr) {
			defer containPanic("add_ref")
			if self == 0 {
				return
			}
			t := trailerOf((*capi.BaseRefCounted)(unsafe.Pointer(self)))
			atomic.AddInt64(&t.refs, 1)
		})

		releasePtr = purego.NewCallback(func(self uintptr) int32 {
			// On a contained panic the safe answer is "still owned":
			// the object is left alive rather than freed twice.
			alive := int32(1)
			func() {
				defer containPanic("release")
				alive = doRelease(self)
			}()
			return alive
		})

		hasOneRefPtr = purego.NewCallback(func(self uintptr) int32 {
			defer containPanic("has_one_ref")
			if self == 0 {
				return 0
			}
			t := trailerOf((*capi.BaseRefCounted)(unsafe.Pointer(self)))
			if atomic.LoadInt64(&t.refs) == 1 {
				return 1
			}
			return 0
		})

		hasAtLeastOneRefPtr = purego.NewCallback(func(self uintptr) int32 {
			defer containPanic("has_at_least_one_ref")
			if self == 0 {
				return 0
			}
			t := trailerOf((*capi.BaseRefCounted)(unsafe.Pointer(self)))
			if atomic.LoadInt64(&t.refs) >= 1 {
				return 1
			}
			return 0
		})
	})
}

func doRelease(self uintptr) int32 {
	if self == 0 {
		return 0
	}
	base := (*capi.BaseRefCounted)(unsafe.Pointer(self))
	t := trailerOf(base)
	if atomic.AddInt64(&t.refs, -1) > 0 {
		return 1
	}
	finalize(self, t)
	return 0
}

// finalize runs on the release call that observed zero; at that point this
// goroutine is the sole owner of the composite.
func finalize(addr uintptr, t *trailer) {
	c, _ := handles.Take(t.handle).(*composite)
	t.handle = 0
	compositeFrees.Add(1)

	if c == nil {
		return
	}
	if closer, ok := c.payload.(io.Closer); ok {
		closer.Close()
	}
	Logger().Debug("composite freed", zap.Uintptr("addr", addr))
}

// containPanic stops a panic raised inside a callback entry point from
// unwinding through foreign frames, which would be undefined behavior.
func containPanic(entry string) {
	if r := recover(); r != nil {
		Logger().Error("panic contained at callback entry point",
			zap.String("entry", entry),
			zap.Any("panic", r))
	}
}

// newRefCounted builds a composite allocation: the record template is copied
// to the start of a fresh block, the refcount table is installed over its
// header (size included), and the count starts at one. The returned pointer
// carries that initial reference.
func newRefCounted(template unsafe.Pointer, size uintptr, payload any) *capi.BaseRefCounted {
	initRefCallbacks()

	off := align8(size)
	block := make([]byte, off+trailerSize)
	copy(block, unsafe.Slice((*byte)(template), size))

	base := (*capi.BaseRefCounted)(unsafe.Pointer(&block[0]))
	*base = capi.BaseRefCounted{
		Size:             size,
		AddRef:           addRefPtr,
		Release:          releasePtr,
		HasOneRef:        hasOneRefPtr,
		HasAtLeastOneRef: hasAtLeastOneRefPtr,
	}

	t := (*trailer)(unsafe.Pointer(&block[off]))
	t.refs = 1
	t.handle = handles.Register(&composite{block: block, payload: payload})

	compositeAllocs.Add(1)
	Logger().Debug("composite allocated",
		zap.Uintptr("addr", uintptr(unsafe.Pointer(base))),
		zap.Uintptr("size", size))
	return base
}

// Wrap copies rec into a fresh composite allocation carrying payload and
// returns an owning pointer holding the initial reference. Callback slots
// already set on rec are preserved; the header is overwritten.
//
// If payload implements io.Closer, Close is called exactly once, on the
// release that drops the last reference.
func Wrap[C any, PC interface {
	*C
	capi.RefCounted
}](rec C, payload any) RefPtr {
	return RefPtr{base: newRefCounted(unsafe.Pointer(&rec), unsafe.Sizeof(rec), payload)}
}

// Payload returns the Go payload carried by the composite behind a raw
// record pointer, without touching the reference count. Valid only for
// pointers produced by Wrap, and only while the foreign side guarantees the
// object stays alive (typically for the duration of a callback invocation).
func Payload(base *capi.BaseRefCounted) any {
	if base == nil {
		return nil
	}
	c, _ := handles.Lookup(trailerOf(base).handle).(*composite)
	if c == nil {
		return nil
	}
	return c.payload
}

// payloadAt is the uintptr form used inside callback trampolines.
func payloadAt(self uintptr) any {
	if self == 0 {
		return nil
	}
	return Payload((*capi.BaseRefCounted)(unsafe.Pointer(self)))
}

// RefPtr owns exactly one reference to a refcounted CEF object. Cloning
// takes another reference; Release gives the held one back. All count
// traffic goes through the function pointers installed in the object's own
// header, so a RefPtr works identically for objects created by Wrap and for
// objects received from libcef.
//
// The zero RefPtr is nil and safe to Release.
type RefPtr struct {
	base *capi.BaseRefCounted
}

// FromPtrAddRef adopts a borrowed raw pointer by taking a new reference on
// it first. Used for objects handed to us that we did not receive ownership
// of, e.g. arguments to callback invocations that we want to keep beyond the
// call. Returns ok=false for a nil pointer.
func FromPtrAddRef(p unsafe.Pointer) (RefPtr, bool) {
	if p == nil {
		return RefPtr{}, false
	}
	base := (*capi.BaseRefCounted)(p)
	if base.AddRef != 0 {
		purego.SyscallN(base.AddRef, uintptr(p))
	}
	return RefPtr{base: base}, true
}

// FromPtr assumes ownership of a raw pointer that already carries one
// reference, per the usual CEF convention for returned objects. No count
// change is performed. Returns ok=false for a nil pointer.
func FromPtr(p unsafe.Pointer) (RefPtr, bool) {
	if p == nil {
		return RefPtr{}, false
	}
	return RefPtr{base: (*capi.BaseRefCounted)(p)}, true
}

// IsNil reports whether the pointer is empty.
func (p RefPtr) IsNil() bool {
	return p.base == nil
}

// Raw returns the underlying record pointer without transferring the held
// reference. The result is borrowed: it must not outlive p.
func (p RefPtr) Raw() *capi.BaseRefCounted {
	return p.base
}

// Clone takes an additional reference and returns a second, independently
// owned pointer to the same object.
func (p RefPtr) Clone() RefPtr {
	if p.base == nil {
		return RefPtr{}
	}
	if p.base.AddRef != 0 {
		purego.SyscallN(p.base.AddRef, uintptr(unsafe.Pointer(p.base)))
	}
	return RefPtr{base: p.base}
}

// Release gives back the held reference and clears the pointer. Returns true
// while at least one owner remains, false on the call that freed the object.
// Releasing a nil or already-released pointer is a no-op returning false.
func (p *RefPtr) Release() bool {
	base := p.base
	if base == nil {
		return false
	}
	p.base = nil
	if base.Release == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(base.Release, uintptr(unsafe.Pointer(base)))
	return r1 != 0
}

// IntoRaw consumes the pointer without releasing, transferring the held
// reference to the caller as a raw pointer. Used when handing ownership to
// the foreign side.
func (p *RefPtr) IntoRaw() *capi.BaseRefCounted {
	base := p.base
	p.base = nil
	return base
}

// HasOneRef reports whether exactly one reference remains.
func (p RefPtr) HasOneRef() bool {
	if p.base == nil || p.base.HasOneRef == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(p.base.HasOneRef, uintptr(unsafe.Pointer(p.base)))
	return r1 != 0
}

// HasAtLeastOneRef reports whether one or more references remain.
func (p RefPtr) HasAtLeastOneRef() bool {
	if p.base == nil || p.base.HasAtLeastOneRef == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(p.base.HasAtLeastOneRef, uintptr(unsafe.Pointer(p.base)))
	return r1 != 0
}
