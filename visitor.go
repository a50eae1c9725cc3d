//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
)

// Visitor records: host callbacks CEF invokes to deliver values it computes
// asynchronously. Unlike completion callbacks these are not one-shot from
// the bridge's point of view; the foreign side holds the reference for as
// long as it needs the visitor and releases it itself.

var (
	visitorOnce sync.Once

	stringVisitPtr uintptr
	navVisitPtr    uintptr
)

func initVisitorCallbacks() {
	visitorOnce.Do(func() {
		// void visit(cef_string_visitor_t* self, const cef_string_t* string)
		stringVisitPtr = purego.NewCallback(func(self uintptr, s *capi.String) {
			defer containPanic("string_visitor.visit")
			if fn, ok := payloadAt(self).(func(string)); ok {
				fn(capi.GoString(s))
			}
		})

		// int visit(cef_navigation_entry_visitor_t* self,
		//           cef_navigation_entry_t* entry, int current, int index,
		//           int total)
		navVisitPtr = purego.NewCallback(func(self, entry uintptr, current, index, total int32) int32 {
			cont := int32(0)
			func() {
				defer containPanic("navigation_entry_visitor.visit")
				fn, ok := payloadAt(self).(NavigationEntryVisitorFunc)
				if !ok {
					return
				}
				if fn(unsafe.Pointer(entry), current != 0, int(index), int(total)) {
					cont = 1
				}
			}()
			return cont
		})
	})
}

// NewStringVisitor wraps fn as a cef_string_visitor_t. The visited string is
// copied before fn sees it; fn may retain it freely.
func NewStringVisitor(fn func(string)) (RefPtr, error) {
	if fn == nil {
		return RefPtr{}, ErrNilCallback
	}
	initVisitorCallbacks()
	rec := capi.StringVisitor{Visit: stringVisitPtr}
	return Wrap(rec, fn), nil
}

// NavigationEntryVisitorFunc receives one navigation entry per call. The
// entry pointer is borrowed for the duration of the call; adopt it with
// FromPtrAddRef to keep it. Return false to stop visitation.
type NavigationEntryVisitorFunc func(entry unsafe.Pointer, current bool, index, total int) bool

// NewNavigationEntryVisitor wraps fn as a cef_navigation_entry_visitor_t.
func NewNavigationEntryVisitor(fn NavigationEntryVisitorFunc) (RefPtr, error) {
	if fn == nil {
		return RefPtr{}, ErrNilCallback
	}
	initVisitorCallbacks()
	rec := capi.NavigationEntryVisitor{Visit: navVisitPtr}
	return Wrap(rec, fn), nil
}
