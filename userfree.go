//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
	"github.com/cefgo/cefgo/internal/bindings"
)

var (
	userfreeOnce sync.Once

	cefStringUserfreeFree func(s *capi.String)
)

// takeUserfreeString copies a cef_string_userfree_t result into a Go string
// and frees the foreign allocation, per the userfree ownership convention.
// Accepts the raw return value of the foreign call; nil-tolerant.
func takeUserfreeString(addr uintptr) string {
	s := (*capi.String)(unsafe.Pointer(addr))
	if s == nil {
		return ""
	}
	out := capi.GoString(s)

	userfreeOnce.Do(func() {
		if bindings.IsLoaded() {
			bindings.RegisterFunc(&cefStringUserfreeFree, "cef_string_userfree_utf16_free")
		}
	})
	switch {
	case cefStringUserfreeFree != nil:
		cefStringUserfreeFree(s)
	case s.Dtor != 0:
		// No libcef to hand the container back to; at least run the
		// string's own destructor on the character buffer.
		purego.SyscallN(s.Dtor, uintptr(unsafe.Pointer(s.Str)))
	}
	return out
}
