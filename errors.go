//go:build !ios && !android && (amd64 || arm64)

package cefgo

import (
	"errors"

	"github.com/cefgo/cefgo/internal/bindings"
)

// Common errors
var (
	// ErrNotLoaded indicates the CEF library is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates the CEF library cannot be found.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrNilCallback indicates a callback wrapper was given a nil function.
	ErrNilCallback = errors.New("cefgo: callback cannot be nil")
)
