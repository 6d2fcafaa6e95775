// SPDX-License-Identifier: MPL-2.0

package activate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"phpvm/internal/store"
)

// newStoreWith fabricates a store containing the given versions.
func newStoreWith(t *testing.T, versions ...string) *store.Store {
	t.Helper()

	s := store.New(t.TempDir())
	for _, v := range versions {
		binDir := filepath.Join(s.VersionDir(v), "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(binDir, "php"), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func writePin(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(PinPath(dir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_PinWinsOverGlobal(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t, "8.1.0", "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	writePin(t, dir, "8.1.0\n")

	version, src, ok := Resolve(s, dir)
	if !ok || version != "8.1.0" || src != SourcePin {
		t.Fatalf("got (%q, %v, %v), want (8.1.0, SourcePin, true)", version, src, ok)
	}
}

func TestResolve_PinContentTrimmed(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t)
	dir := t.TempDir()
	writePin(t, dir, "  8.1.0\t\n\n")

	version, _, ok := Resolve(s, dir)
	if !ok || version != "8.1.0" {
		t.Fatalf("got (%q, %v), want trimmed (8.1.0, true)", version, ok)
	}
}

func TestResolve_PinNotValidatedAgainstStore(t *testing.T) {
	t.Parallel()

	// The pinned version is not installed; the pin still decides.
	s := newStoreWith(t, "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	writePin(t, dir, "7.4.33")

	version, src, ok := Resolve(s, dir)
	if !ok || version != "7.4.33" || src != SourcePin {
		t.Fatalf("got (%q, %v, %v), want uninstalled pin to win", version, src, ok)
	}
}

func TestResolve_NoAncestorSearch(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t)

	parent := t.TempDir()
	writePin(t, parent, "8.1.0")

	child := filepath.Join(parent, "sub")
	if err := os.Mkdir(child, 0o755); err != nil {
		t.Fatal(err)
	}

	// A pin in the parent directory must be invisible from the child.
	if _, _, ok := Resolve(s, child); ok {
		t.Error("pin in ancestor directory must not be consulted")
	}
}

func TestResolve_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t, "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	version, src, ok := Resolve(s, t.TempDir())
	if !ok || version != "8.3.0" || src != SourceGlobal {
		t.Fatalf("got (%q, %v, %v), want (8.3.0, SourceGlobal, true)", version, src, ok)
	}
}

func TestResolve_NothingConfigured(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t)

	version, src, ok := Resolve(s, t.TempDir())
	if ok || version != "" || src != SourceNone {
		t.Fatalf("got (%q, %v, %v), want (\"\", SourceNone, false)", version, src, ok)
	}
}

func TestWriteLocal(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t, "8.1.0")
	dir := t.TempDir()

	if err := WriteLocal(s, dir, "8.1.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(PinPath(dir))
	if err != nil {
		t.Fatalf("pin file missing: %v", err)
	}
	if string(data) != "8.1.0\n" {
		t.Errorf("pin content = %q, want %q", data, "8.1.0\n")
	}

	// No temp files left next to the pin.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want just the pin file", len(entries))
	}
}

func TestWriteLocal_OverwritesPriorPin(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t, "8.1.0", "8.3.0")
	dir := t.TempDir()
	writePin(t, dir, "8.1.0\n")

	if err := WriteLocal(s, dir, "8.3.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	version, _, _ := Resolve(s, dir)
	if version != "8.3.0" {
		t.Errorf("got %q, want overwritten pin 8.3.0", version)
	}
}

func TestWriteLocal_NotInstalled(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t)
	dir := t.TempDir()

	err := WriteLocal(s, dir, "8.1.0")
	if !errors.Is(err, store.ErrNotInstalled) {
		t.Fatalf("got %v, want ErrNotInstalled", err)
	}
	if _, statErr := os.Stat(PinPath(dir)); statErr == nil {
		t.Error("failed pin must not leave a pin file behind")
	}
}

func TestGuardRemove(t *testing.T) {
	t.Parallel()

	s := newStoreWith(t, "8.1.0", "8.2.0", "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	writePin(t, dir, "8.1.0")

	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"global target is in use", "8.3.0", true},
		{"local pin is in use", "8.1.0", true},
		{"inactive version is removable", "8.2.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := GuardRemove(s, dir, tt.version)
			if tt.wantErr && !errors.Is(err, store.ErrVersionInUse) {
				t.Fatalf("got %v, want ErrVersionInUse", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGuardRemove_PinInOtherDirectoryIgnored(t *testing.T) {
	t.Parallel()

	// Known limitation: only the caller's working directory is checked,
	// so a pin elsewhere does not protect the version.
	s := newStoreWith(t, "8.1.0")

	otherDir := t.TempDir()
	writePin(t, otherDir, "8.1.0")

	if err := GuardRemove(s, t.TempDir(), "8.1.0"); err != nil {
		t.Fatalf("pin in another directory must not block removal: %v", err)
	}
}
