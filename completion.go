//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
)

// completionPayload guards the wrapped function so it runs at most once even
// if a misbehaving foreign side invokes the slot twice.
type completionPayload struct {
	fn   func()
	done atomic.Bool
}

func (p *completionPayload) invoke() {
	if p.done.CompareAndSwap(false, true) && p.fn != nil {
		p.fn()
	}
}

// Pre-registered trampoline shared by all completion callbacks.
var (
	completionOnce sync.Once
	onCompletePtr  uintptr
)

func initCompletionCallback() {
	completionOnce.Do(func() {
		// void on_complete(cef_completion_callback_t* self)
		onCompletePtr = purego.NewCallback(func(self uintptr) {
			defer containPanic("on_complete")
			if p, ok := payloadAt(self).(*completionPayload); ok {
				p.invoke()
			}
			// One-shot contract: the invocation consumes the reference
			// created at wrap time, freeing the composite unless another
			// owner remains.
			doRelease(self)
		})
	})
}

// NewCompletionCallback wraps fn as a cef_completion_callback_t. The foreign
// side invokes it exactly once when the pending operation finishes; that
// invocation drops the wrapping reference, so the composite is freed on the
// callback's exit. Transfer the result into the foreign call with IntoRaw.
func NewCompletionCallback(fn func()) (RefPtr, error) {
	if fn == nil {
		return RefPtr{}, ErrNilCallback
	}
	initCompletionCallback()
	rec := capi.CompletionCallback{OnComplete: onCompletePtr}
	return Wrap(rec, &completionPayload{fn: fn}), nil
}
