//go:build !ios && !android && (amd64 || arm64)

package cefgo

import "testing"

func TestVersionQueriesWithoutLibrary(t *testing.T) {
	if IsLoaded() {
		t.Skip("CEF library is loaded; cannot exercise the unloaded path")
	}

	major, minor, patch := Version()
	if major != 0 || minor != 0 || patch != 0 {
		t.Errorf("Version = %d.%d.%d, want zeros when not loaded", major, minor, patch)
	}
	cm, cn, cb, cp := ChromeVersion()
	if cm != 0 || cn != 0 || cb != 0 || cp != 0 {
		t.Errorf("ChromeVersion = %d.%d.%d.%d, want zeros when not loaded", cm, cn, cb, cp)
	}
	if hash := APIHash(); hash != "" {
		t.Errorf("APIHash = %q, want empty when not loaded", hash)
	}
}

func TestInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("CEF library not available: %v", err)
	}
	major, _, _ := Version()
	if major == 0 {
		t.Error("Version major should be nonzero with the library loaded")
	}
	if APIHash() == "" {
		t.Error("APIHash should be nonempty with the library loaded")
	}
}
