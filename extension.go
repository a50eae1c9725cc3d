//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
)

// Extension is a typed handle over a cef_extension_t received from libcef.
// It holds one reference on the underlying object. Methods tolerate absent
// slots (older ABI builds) by returning zero values or doing nothing.
type Extension struct {
	ptr RefPtr
}

// ExtensionFromPtr assumes ownership of a raw cef_extension_t pointer that
// already carries one reference, the convention for getter results.
func ExtensionFromPtr(p unsafe.Pointer) (Extension, bool) {
	rp, ok := FromPtr(p)
	return Extension{ptr: rp}, ok
}

// ExtensionFromPtrAddRef adopts a borrowed cef_extension_t pointer by taking
// a new reference on it.
func ExtensionFromPtrAddRef(p unsafe.Pointer) (Extension, bool) {
	rp, ok := FromPtrAddRef(p)
	return Extension{ptr: rp}, ok
}

// Release gives back the held reference. The handle must not be used after.
func (e *Extension) Release() {
	e.ptr.Release()
}

func (e *Extension) rec() *capi.Extension {
	return (*capi.Extension)(unsafe.Pointer(e.ptr.Raw()))
}

func (e *Extension) self() uintptr {
	return uintptr(unsafe.Pointer(e.ptr.Raw()))
}

// Identifier returns the unique extension identifier, or "" if the loaded
// build does not support the operation.
func (e *Extension) Identifier() string {
	r := e.rec()
	if r == nil || r.GetIdentifier == 0 {
		return ""
	}
	r1, _, _ := purego.SyscallN(r.GetIdentifier, e.self())
	return takeUserfreeString(r1)
}

// Path returns the absolute path to the extension directory on disk, or "".
func (e *Extension) Path() string {
	r := e.rec()
	if r == nil || r.GetPath == 0 {
		return ""
	}
	r1, _, _ := purego.SyscallN(r.GetPath, e.self())
	return takeUserfreeString(r1)
}

// IsSame reports whether both handles refer to the same extension object.
func (e *Extension) IsSame(other *Extension) bool {
	r := e.rec()
	if r == nil || other == nil || other.rec() == nil || r.IsSame == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(r.IsSame, e.self(), other.self())
	return r1 != 0
}

// LoaderContext returns an owned pointer to the request context that loaded
// this extension, or ok=false for internal or unloaded extensions.
func (e *Extension) LoaderContext() (RefPtr, bool) {
	r := e.rec()
	if r == nil || r.GetLoaderContext == 0 {
		return RefPtr{}, false
	}
	r1, _, _ := purego.SyscallN(r.GetLoaderContext, e.self())
	return FromPtr(unsafe.Pointer(r1))
}

// IsLoaded reports whether the extension is currently loaded.
func (e *Extension) IsLoaded() bool {
	r := e.rec()
	if r == nil || r.IsLoaded == 0 {
		return false
	}
	r1, _, _ := purego.SyscallN(r.IsLoaded, e.self())
	return r1 != 0
}

// Unload unloads the extension if it is loaded and not internal.
func (e *Extension) Unload() {
	r := e.rec()
	if r == nil || r.Unload == 0 {
		return
	}
	purego.SyscallN(r.Unload, e.self())
}
