//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and capabilities for cefgo.
// It determines how the CEF shared library is named on the current operating
// system and which targets the bindings can run on at all.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// cefgo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// PointerAlign is the alignment the refcount bridge assumes for every
// composite allocation. All supported targets align 8-byte atomics at 8.
const PointerAlign = 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
//
// Examples:
//   - Linux:   FormatLibraryName("cef") -> "libcef.so"
//   - macOS:   FormatLibraryName("cef") -> "libcef.dylib"
//   - Windows: FormatLibraryName("cef") -> "cef.dll"
func FormatLibraryName(name string) string {
	return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
}

// FrameworkName returns the macOS framework binary name CEF ships under, or
// "" on platforms that do not use frameworks.
func FrameworkName() string {
	if runtime.GOOS == "darwin" {
		return "Chromium Embedded Framework"
	}
	return ""
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
