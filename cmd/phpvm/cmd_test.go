// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phpvm/internal/installer"
	"phpvm/internal/manifest"
	"phpvm/internal/store"
)

// newTestStore fabricates a store with the given versions installed.
func newTestStore(t *testing.T, versions ...string) *store.Store {
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

func TestRunCurrent_NoActiveVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	runCurrent(currentParams{
		stdout: &out,
		store:  newTestStore(t),
		dir:    t.TempDir(),
	})

	if !strings.Contains(out.String(), "no active version") {
		t.Errorf("output = %q, want a no-active-version report", out.String())
	}
}

func TestRunCurrent_PinWinsAndWarnsWhenUninstalled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".php_version"), []byte("8.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runCurrent(currentParams{stdout: &out, store: s, dir: dir})

	got := out.String()
	if !strings.Contains(got, "8.1.0") || !strings.Contains(got, ".php_version") {
		t.Errorf("output = %q, want pinned version with provenance", got)
	}
	if !strings.Contains(got, "not installed") {
		t.Errorf("output = %q, want a warning for the uninstalled pin", got)
	}
}

func TestRunList_MarksActiveVersion(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "8.1.0", "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runList(listParams{stdout: &out, store: s, dir: t.TempDir()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[1], "*") || !strings.Contains(lines[1], "8.3.0") {
		t.Errorf("active version not marked: %q", lines[1])
	}
	if strings.Contains(lines[0], "*") {
		t.Errorf("inactive version must not be marked: %q", lines[0])
	}
}

func TestRunList_EmptyStore(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := runList(listParams{stdout: &out, store: newTestStore(t), dir: t.TempDir()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No versions installed") {
		t.Errorf("output = %q, want empty-store hint", out.String())
	}
}

func TestRunUse(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "8.3.0")

	var out bytes.Buffer
	if err := runUse(useParams{stdout: &out, store: s, version: "8.3.0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := s.CurrentGlobal(); !ok || v != "8.3.0" {
		t.Fatalf("global target = (%q, %v), want (8.3.0, true)", v, ok)
	}

	err := runUse(useParams{stdout: &out, store: s, version: "7.4.0"})
	if !errors.Is(err, store.ErrNotInstalled) {
		t.Fatalf("got %v, want ErrNotInstalled", err)
	}
}

func TestRunUninstall_GuardsActiveVersions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "8.1.0", "8.2.0", "8.3.0")
	if err := s.ActivateGlobal("8.3.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".php_version"), []byte("8.1.0"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	// Global target and local pin are both protected.
	if err := runUninstall(uninstallParams{stdout: &out, store: s, dir: dir, version: "8.3.0"}); !errors.Is(err, store.ErrVersionInUse) {
		t.Fatalf("got %v, want ErrVersionInUse for global target", err)
	}
	if err := runUninstall(uninstallParams{stdout: &out, store: s, dir: dir, version: "8.1.0"}); !errors.Is(err, store.ErrVersionInUse) {
		t.Fatalf("got %v, want ErrVersionInUse for local pin", err)
	}

	// An inactive version goes away.
	if err := runUninstall(uninstallParams{stdout: &out, store: s, dir: dir, version: "8.2.0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Exists("8.2.0") {
		t.Error("expected 8.2.0 to be removed")
	}
}

func TestRunLocal(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, "8.1.0")
	dir := t.TempDir()

	var out bytes.Buffer
	if err := runLocal(localParams{stdout: &out, store: s, dir: dir, version: "8.1.0"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".php_version"))
	if err != nil {
		t.Fatalf("pin file missing: %v", err)
	}
	if strings.TrimSpace(string(data)) != "8.1.0" {
		t.Errorf("pin content = %q, want 8.1.0", data)
	}
}

func TestClassifyExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"manifest unavailable", fmt.Errorf("x: %w", manifest.ErrUnavailable), exitNetwork},
		{"download failed", fmt.Errorf("x: %w", installer.ErrDownloadFailed), exitNetwork},
		{"checksum mismatch", &installer.ChecksumError{Version: "8.1.0"}, exitIntegrity},
		{"corrupt archive", fmt.Errorf("x: %w", installer.ErrCorruptArchive), exitIntegrity},
		{"not installed", fmt.Errorf("x: %w", store.ErrNotInstalled), exitFailure},
		{"version in use", fmt.Errorf("x: %w", store.ErrVersionInUse), exitFailure},
		{"parse error", fmt.Errorf("x: %w", manifest.ErrParse), exitFailure},
		{"generic", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyExitCode(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ee := &ExitError{Code: exitNetwork, Err: cause}

	if ee.Error() != "boom" {
		t.Errorf("Error() = %q, want cause message", ee.Error())
	}
	if !errors.Is(ee, cause) {
		t.Error("ExitError must unwrap to its cause")
	}

	empty := &ExitError{Code: 3}
	if !strings.Contains(empty.Error(), "3") {
		t.Errorf("Error() = %q, want exit status text", empty.Error())
	}
}
