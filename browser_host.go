//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
)

// BrowserHost is a typed handle over a cef_browser_host_t, the browser
// process side of a browser window. It holds one reference on the
// underlying object; methods may be called from any thread and tolerate
// absent slots.
type BrowserHost struct {
	ptr RefPtr
}

// BrowserHostFromPtr assumes ownership of a raw cef_browser_host_t pointer
// that already carries one reference.
func BrowserHostFromPtr(p unsafe.Pointer) (BrowserHost, bool) {
	rp, ok := FromPtr(p)
	return BrowserHost{ptr: rp}, ok
}

// BrowserHostFromPtrAddRef adopts a borrowed cef_browser_host_t pointer by
// taking a new reference on it.
func BrowserHostFromPtrAddRef(p unsafe.Pointer) (BrowserHost, bool) {
	rp, ok := FromPtrAddRef(p)
	return BrowserHost{ptr: rp}, ok
}

// Release gives back the held reference. The handle must not be used after.
func (b *BrowserHost) Release() {
	b.ptr.Release()
}

func (b *BrowserHost) rec() *capi.BrowserHost {
	return (*capi.BrowserHost)(unsafe.Pointer(b.ptr.Raw()))
}

func (b *BrowserHost) self() uintptr {
	return uintptr(unsafe.Pointer(b.ptr.Raw()))
}

// Browser returns an owned pointer to the hosted browser object.
func (b *BrowserHost) Browser() (RefPtr, bool) {
	r := b.rec()
	if r == nil || r.GetBrowser == 0 {
		return RefPtr{}, false
	}
	r1, _, _ := purego.SyscallN(r.GetBrowser, b.self())
	return FromPtr(unsafe.Pointer(r1))
}

// CloseBrowser requests that the browser close. With force false the
// JavaScript onbeforeunload handler may prompt the user and cancel.
func (b *BrowserHost) CloseBrowser(force bool) {
	r := b.rec()
	if r == nil || r.CloseBrowser == 0 {
		return
	}
	purego.SyscallN(r.CloseBrowser, b.self(), btou(force))
}

// TryCloseBrowser initiates a close if not already pending. Returns false
// while the close is pending and true after it has completed.
func (b *BrowserHost) TryCloseBrowser() bool {
	r := b.rec()
	if r == nil || r.TryCloseBrowser == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(r.TryCloseBrowser, b.self())
	return r1 != 0
}

// SetFocus sets whether the browser is focused.
func (b *BrowserHost) SetFocus(focus bool) {
	r := b.rec()
	if r == nil || r.SetFocus == 0 {
		return
	}
	purego.SyscallN(r.SetFocus, b.self(), btou(focus))
}

// WindowHandle returns the platform window handle for this browser, or 0.
func (b *BrowserHost) WindowHandle() uintptr {
	r := b.rec()
	if r == nil || r.GetWindowHandle == 0 {
		return 0
	}
	r1, _, _ := purego.SyscallN(r.GetWindowHandle, b.self())
	return r1
}

// HasView reports whether this browser is wrapped in a browser view.
func (b *BrowserHost) HasView() bool {
	r := b.rec()
	if r == nil || r.HasView == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(r.HasView, b.self())
	return r1 != 0
}

func btou(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
