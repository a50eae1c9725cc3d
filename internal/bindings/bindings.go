//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the CEF shared library and registering
// function bindings using purego.
//
// The refcount bridge itself never calls into libcef; only the typed handle
// layer does, so loading is optional and everything here degrades to
// ErrNotLoaded when the library is absent.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/cefgo/cefgo/internal/platform"
)

// ErrNotLoaded is returned when libcef functions are called before Load().
var ErrNotLoaded = errors.New("cefgo: CEF library not loaded; call cefgo.Init() first")

// ErrLibraryNotFound is returned when the CEF library cannot be found.
var ErrLibraryNotFound = errors.New("cefgo: CEF library not found")

// Library handle
var (
	libCEF uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Version entry indexes accepted by cef_version_info.
const (
	VersionEntryMajor = iota
	VersionEntryMinor
	VersionEntryPatch
	VersionEntryCommitNumber
	VersionEntryChromeMajor
	VersionEntryChromeMinor
	VersionEntryChromeBuild
	VersionEntryChromePatch
)

// Function bindings
var (
	cefVersionInfo func(entry int32) int32
	cefAPIHash     func(entry int32) string
)

// IsLoaded returns true if the CEF library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libcef and registers all function bindings.
// It is safe to call multiple times; subsequent calls are no-ops.
// Returns an error if the library cannot be found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error
	libCEF, err = loadLibrary("cef")
	if err != nil {
		return fmt.Errorf("loading libcef: %w", err)
	}

	purego.RegisterLibFunc(&cefVersionInfo, libCEF, "cef_version_info")
	purego.RegisterLibFunc(&cefAPIHash, libCEF, "cef_api_hash")

	return nil
}

// loadLibrary attempts to load the named library from the search paths.
func loadLibrary(name string) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		libName := platform.FormatLibraryName(name)
		fullPath := filepath.Join(searchPath, libName)

		lib, err := tryOpen(fullPath)
		if err == nil {
			return lib, nil
		}

		// macOS builds usually ship CEF as a framework binary instead
		// of a plain dylib.
		if fw := platform.FrameworkName(); fw != "" {
			fwPath := filepath.Join(searchPath, fw+".framework", fw)
			lib, err = tryOpen(fwPath)
			if err == nil {
				return lib, nil
			}
		}
	}

	// Let the system loader find it.
	lib, err := tryOpen(platform.FormatLibraryName(name))
	if err == nil {
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL matters: libcef re-exports symbols its sandbox helpers resolve
// against.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for the CEF library and returns its full path.
// This is useful for diagnostics.
func FindLibrary(name string) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name))
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
// CEFGO_LIBRARY_PATH always wins when set.
func LibrarySearchPaths() []string {
	var paths []string

	if cefPath := os.Getenv("CEFGO_LIBRARY_PATH"); cefPath != "" {
		paths = append(paths, filepath.SplitList(cefPath)...)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/opt/cef/Release",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/Library/Frameworks",
			"/opt/homebrew/lib",
			"/usr/local/lib",
		)
		if exe, err := os.Executable(); err == nil {
			// App bundles keep the framework next to the helper binaries.
			paths = append(paths, filepath.Join(filepath.Dir(exe), "..", "Frameworks"))
		}

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths,
			"C:\\cef\\Release",
			"C:\\Program Files\\cef\\Release",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// VersionInfo returns the CEF version component for the given entry.
// Returns 0 if the library is not loaded.
func VersionInfo(entry int32) int32 {
	if !loaded || cefVersionInfo == nil {
		return 0
	}
	return cefVersionInfo(entry)
}

// APIHash returns the CEF API hash for the given entry (0 = platform,
// 1 = universal, 2 = commit). Returns "" if the library is not loaded.
func APIHash(entry int32) string {
	if !loaded || cefAPIHash == nil {
		return ""
	}
	return cefAPIHash(entry)
}

// LibCEF returns the libcef library handle.
func LibCEF() uintptr {
	return libCEF
}

// RegisterFunc registers fptr against a libcef symbol. It is exported for
// the typed handle layer, which binds global entry points lazily.
func RegisterFunc(fptr any, name string) error {
	if err := Load(); err != nil {
		return err
	}
	purego.RegisterLibFunc(fptr, libCEF, name)
	return nil
}
