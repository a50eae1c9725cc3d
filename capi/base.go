// Package capi defines the C ABI structures of the CEF C API that cefgo
// exchanges with libcef. Every struct here mirrors its cef_*_t counterpart
// field for field; the function-pointer slots are declared as uintptr because
// they hold raw C-callable addresses, never Go funcs.
package capi

import "unsafe"

// BaseRefCounted mirrors cef_base_ref_counted_t, the intrusive reference
// count header embedded at the start of every refcounted CEF structure.
//
// Once installed by the bridge, the four slots must remain valid to call from
// any thread for the entire lifetime of the allocation that carries them.
type BaseRefCounted struct {
	// Size is the byte size of the struct that embeds this header.
	Size uintptr

	// AddRef increments the reference count.
	// C signature: void (*)(cef_base_ref_counted_t* self)
	AddRef uintptr

	// Release decrements the reference count and frees the object when it
	// reaches zero. Returns nonzero while at least one owner remains.
	// C signature: int (*)(cef_base_ref_counted_t* self)
	Release uintptr

	// HasOneRef returns nonzero iff exactly one owner remains.
	// C signature: int (*)(cef_base_ref_counted_t* self)
	HasOneRef uintptr

	// HasAtLeastOneRef returns nonzero iff one or more owners remain.
	// C signature: int (*)(cef_base_ref_counted_t* self)
	HasAtLeastOneRef uintptr
}

// RefCounted is the layout contract every refcounted CEF record commits to:
// the BaseRefCounted header is the first field of the struct, so a pointer to
// the record is also a valid pointer to the header and vice versa.
//
// Implementations return the embedded header by reference; BaseRef never
// allocates. Placing the header anywhere but offset 0 is undefined behavior,
// not a runtime-checked error.
type RefCounted interface {
	BaseRef() *BaseRefCounted
}

// BaseOf reinterprets a raw record pointer as its header pointer. Valid for
// any record honoring the RefCounted layout contract.
func BaseOf(rec unsafe.Pointer) *BaseRefCounted {
	return (*BaseRefCounted)(rec)
}
