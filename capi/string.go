package capi

import (
	"unicode/utf16"
	"unsafe"
)

// String mirrors cef_string_utf16_t, the UTF-16 string CEF passes by pointer
// across the C API. Str is a real Go pointer type so a String backed by Go
// memory keeps its code units reachable for the garbage collector.
type String struct {
	Str    *uint16
	Length uintptr

	// Dtor frees Str for strings the receiver takes ownership of.
	// C signature: void (*)(char16_t* str)
	Dtor uintptr
}

// NewString encodes s as a CEF UTF-16 string backed by Go memory. The result
// is only valid to hand across the boundary for the duration of a call; the
// callee must copy it, which is the cef_string_t borrowing convention.
func NewString(s string) *String {
	if s == "" {
		return &String{}
	}
	units := utf16.Encode([]rune(s))
	return &String{
		Str:    &units[0],
		Length: uintptr(len(units)),
	}
}

// GoString copies a CEF UTF-16 string into a Go string.
// Returns "" for a nil or empty input.
func GoString(s *String) string {
	if s == nil || s.Str == nil || s.Length == 0 {
		return ""
	}
	units := unsafe.Slice(s.Str, s.Length)
	return string(utf16.Decode(units))
}
