//go:build !ios && !android && (amd64 || arm64)

// Package cefgo provides bindings to the Chromium Embedded Framework C API
// without CGO, using purego.
//
// Its core is the refcount bridge: Go payloads are wrapped into composite
// allocations that carry the cef_base_ref_counted_t header CEF expects
// (Wrap, RefPtr, PtrCache), and typed handles call back into libcef objects
// through their function-pointer tables. The bridge itself never requires
// libcef to be present; only operations that enter the library do, and those
// report ErrNotLoaded until Init succeeds.
package cefgo

import (
	"github.com/cefgo/cefgo/internal/bindings"
)

// Init loads the CEF shared library. It is called lazily by operations that
// need libcef, but can be called explicitly to check for errors up front.
// It is safe to call multiple times.
func Init() error {
	return bindings.Load()
}

// IsLoaded returns true if the CEF library has been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the CEF version, or zeros if the library is not loaded.
func Version() (major, minor, patch int32) {
	return bindings.VersionInfo(bindings.VersionEntryMajor),
		bindings.VersionInfo(bindings.VersionEntryMinor),
		bindings.VersionInfo(bindings.VersionEntryPatch)
}

// ChromeVersion returns the Chromium version CEF was built against, or
// zeros if the library is not loaded.
func ChromeVersion() (major, minor, build, patch int32) {
	return bindings.VersionInfo(bindings.VersionEntryChromeMajor),
		bindings.VersionInfo(bindings.VersionEntryChromeMinor),
		bindings.VersionInfo(bindings.VersionEntryChromeBuild),
		bindings.VersionInfo(bindings.VersionEntryChromePatch)
}

// APIHash returns the universal CEF API hash, or "" if the library is not
// loaded. A mismatch against the compiled-in hash indicates incompatible
// struct layouts.
func APIHash() string {
	return bindings.APIHash(1)
}
