//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/capi"
	"github.com/cefgo/cefgo/internal/bindings"
)

// ThreadID identifies a CEF thread, matching cef_thread_id_t.
type ThreadID int32

const (
	ThreadUI ThreadID = iota
	ThreadFileBackground
	ThreadFileUserVisible
	ThreadFileUserBlocking
	ThreadProcessLauncher
	ThreadIO
	ThreadRenderer
)

// ErrTaskNotPosted indicates cef_post_task rejected the task, usually
// because the target thread no longer exists.
var ErrTaskNotPosted = errors.New("cefgo: task was not posted")

var (
	taskOnce   sync.Once
	executePtr uintptr
)

func initTaskCallback() {
	taskOnce.Do(func() {
		// void execute(cef_task_t* self)
		executePtr = purego.NewCallback(func(self uintptr) {
			defer containPanic("task.execute")
			if fn, ok := payloadAt(self).(func()); ok {
				fn()
			}
			// The task runner owns the reference it invoked through and
			// releases it itself; no self-release here.
		})
	})
}

// NewTask wraps fn as a cef_task_t for posting to a CEF thread.
func NewTask(fn func()) (RefPtr, error) {
	if fn == nil {
		return RefPtr{}, ErrNilCallback
	}
	initTaskCallback()
	rec := capi.Task{Execute: executePtr}
	return Wrap(rec, fn), nil
}

// Global task entry points, bound lazily against libcef.
var (
	postTaskOnce sync.Once
	postTaskErr  error

	cefPostTask    func(threadID int32, task unsafe.Pointer) int32
	cefCurrentlyOn func(threadID int32) int32
)

func initTaskBindings() error {
	postTaskOnce.Do(func() {
		if postTaskErr = bindings.RegisterFunc(&cefPostTask, "cef_post_task"); postTaskErr != nil {
			return
		}
		postTaskErr = bindings.RegisterFunc(&cefCurrentlyOn, "cef_currently_on")
	})
	return postTaskErr
}

// PostTask schedules fn for asynchronous execution on the given CEF thread.
// Requires the CEF library to be loaded.
func PostTask(id ThreadID, fn func()) error {
	if err := initTaskBindings(); err != nil {
		return err
	}
	task, err := NewTask(fn)
	if err != nil {
		return err
	}

	raw := task.IntoRaw()
	if cefPostTask(int32(id), unsafe.Pointer(raw)) == 0 {
		// Rejected: take the transferred reference back and drop it.
		if p, ok := FromPtr(unsafe.Pointer(raw)); ok {
			p.Release()
		}
		return ErrTaskNotPosted
	}
	return nil
}

// CurrentlyOn reports whether the calling thread is the given CEF thread.
// Returns false when the CEF library is not loaded.
func CurrentlyOn(id ThreadID) bool {
	if err := initTaskBindings(); err != nil {
		return false
	}
	return cefCurrentlyOn(int32(id)) != 0
}
